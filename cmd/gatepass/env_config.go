package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-gatepass/internal/config"
	"github.com/alnah/go-gatepass/internal/hints"
)

// envPrefix marks the variables read by gatepass.
const envPrefix = "GATEPASS_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // GATEPASS_CONFIG: config file name or path

	// Server
	Addr    string // GATEPASS_ADDR: listen address
	BaseURL string // GATEPASS_BASE_URL: public URL encoded in QR codes

	// Storage and template
	StaticDir string // GATEPASS_STATIC_DIR: pass storage root
	Template  string // GATEPASS_TEMPLATE: DOCX template path

	// Converter
	ConverterBinary string        // GATEPASS_CONVERTER_BINARY: LibreOffice executable
	Format          string        // GATEPASS_FORMAT: --convert-to value
	Timeout         time.Duration // GATEPASS_TIMEOUT: conversion timeout
	Workers         int           // GATEPASS_WORKERS: concurrent conversions

	// Logging
	LogPath  string // GATEPASS_LOG_PATH: append-only log file
	LogLevel string // GATEPASS_LOG_LEVEL: logrus level
}

// knownEnvVars lists valid GATEPASS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"GATEPASS_CONFIG":        true,
	"GATEPASS_ADDR":          true,
	"GATEPASS_BASE_URL":      true,
	"GATEPASS_STATIC_DIR":    true,
	"GATEPASS_TEMPLATE":      true,
	hints.ConverterBinaryEnv: true,
	"GATEPASS_FORMAT":        true,
	"GATEPASS_TIMEOUT":       true,
	"GATEPASS_WORKERS":       true,
	"GATEPASS_LOG_PATH":      true,
	"GATEPASS_LOG_LEVEL":     true,
	"GATEPASS_CONTAINER":     true, // doctor: force container detection
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:      os.Getenv("GATEPASS_CONFIG"),
		Addr:            os.Getenv("GATEPASS_ADDR"),
		BaseURL:         os.Getenv("GATEPASS_BASE_URL"),
		StaticDir:       os.Getenv("GATEPASS_STATIC_DIR"),
		Template:        os.Getenv("GATEPASS_TEMPLATE"),
		ConverterBinary: os.Getenv(hints.ConverterBinaryEnv),
		Format:          os.Getenv("GATEPASS_FORMAT"),
		LogPath:         os.Getenv("GATEPASS_LOG_PATH"),
		LogLevel:        os.Getenv("GATEPASS_LOG_LEVEL"),
	}

	// Parse duration for timeout
	if timeout := os.Getenv("GATEPASS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	// Parse int for workers
	if workers := os.Getenv("GATEPASS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized GATEPASS_* variables.
// Helps catch typos like GATEPASS_STATICDIR instead of GATEPASS_STATIC_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later
// (see mergeFlags), giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Server.Addr, env.Addr)
	setString(&cfg.Server.BaseURL, env.BaseURL)
	setString(&cfg.Storage.StaticDir, env.StaticDir)
	setString(&cfg.Template.Path, env.Template)
	setString(&cfg.Converter.Binary, env.ConverterBinary)
	setString(&cfg.Converter.Format, env.Format)
	setString(&cfg.Log.Path, env.LogPath)
	setString(&cfg.Log.Level, env.LogLevel)

	if env.Timeout > 0 {
		cfg.Converter.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}

// setString overwrites *dst with v when v is set.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
