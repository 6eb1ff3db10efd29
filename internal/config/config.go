package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-gatepass/internal/fileutil"
	"github.com/alnah/go-gatepass/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength   = 4096 // PATH_MAX on Linux
	MaxURLLength    = 2048 // Browser limit
	MaxAddrLength   = 255  // host:port
	MaxFormatLength = 100  // "pdf:writer_pdf_Export:{...}"
	MaxLevelLength  = 10   // "warning"
)

// Converter timeout bounds.
const (
	MinConverterTimeout = time.Second
	MaxConverterTimeout = 10 * time.Minute
)

// Defaults.
const (
	DefaultAddr             = ":5000"
	DefaultBaseURL          = "http://localhost:5000"
	DefaultStaticDir        = "static"
	DefaultTemplatePath     = "template.docx"
	DefaultFormat           = "pdf"
	DefaultConverterTimeout = 60 * time.Second
	DefaultLogPath          = "app.log"
	DefaultLogLevel         = "info"
)

// AppName names the user config directory (~/.config/gatepass).
const AppName = "gatepass"

// SupportedFormats lists the output formats accepted by converter.format.
var SupportedFormats = []string{"pdf", "odt", "rtf", "html", "txt"}

// Config holds all configuration for the gate pass service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Template  TemplateConfig  `yaml:"template"`
	Converter ConverterConfig `yaml:"converter"`
	Log       LogConfig       `yaml:"log"`
	Workers   int             `yaml:"workers"` // 0 = auto (GOMAXPROCS/2, capped)
}

// ServerConfig defines the HTTP surface.
type ServerConfig struct {
	Addr    string `yaml:"addr"`    // listen address (default ":5000")
	BaseURL string `yaml:"baseURL"` // public URL encoded in QR codes
}

// StorageConfig defines where passes are written.
type StorageConfig struct {
	StaticDir string `yaml:"staticDir"`
}

// TemplateConfig defines the DOCX template.
type TemplateConfig struct {
	Path string `yaml:"path"`
}

// ConverterConfig defines the LibreOffice invocation.
type ConverterConfig struct {
	Binary  string        `yaml:"binary"`  // empty = soffice, then libreoffice, on PATH
	Format  string        `yaml:"format"`  // --convert-to value (default "pdf")
	Timeout time.Duration `yaml:"timeout"` // per conversion (default 60s)
}

// LogConfig defines diagnostics output.
type LogConfig struct {
	Path  string `yaml:"path"`  // append-only log file; empty = stderr only
	Level string `yaml:"level"` // logrus level name
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server:    ServerConfig{Addr: DefaultAddr, BaseURL: DefaultBaseURL},
		Storage:   StorageConfig{StaticDir: DefaultStaticDir},
		Template:  TemplateConfig{Path: DefaultTemplatePath},
		Converter: ConverterConfig{Format: DefaultFormat, Timeout: DefaultConverterTimeout},
		Log:       LogConfig{Path: DefaultLogPath, Level: DefaultLogLevel},
	}
}

// Validate checks field lengths and values.
// Called automatically by LoadConfig, but available for callers that build
// a Config from flags or environment variables.
func (c *Config) Validate() error {
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.baseURL", c.Server.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Server.BaseURL != "" && !fileutil.IsURL(c.Server.BaseURL) {
		return fmt.Errorf("%w: server.baseURL %q (must start with http:// or https://)", ErrInvalidValue, c.Server.BaseURL)
	}

	if err := validateFieldLength("storage.staticDir", c.Storage.StaticDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("template.path", c.Template.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("converter.binary", c.Converter.Binary, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("log.path", c.Log.Path, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("converter.format", c.Converter.Format, MaxFormatLength); err != nil {
		return err
	}
	if c.Converter.Format != "" {
		ext, _, _ := strings.Cut(c.Converter.Format, ":")
		if err := fileutil.ValidateExtension(ext); err != nil {
			return fmt.Errorf("%w: converter.format %q: %v", ErrInvalidValue, c.Converter.Format, err)
		}
		if !isSupportedFormat(ext) {
			return fmt.Errorf("%w: converter.format %q (must be one of %s)", ErrInvalidValue, ext, strings.Join(SupportedFormats, ", "))
		}
	}
	if c.Converter.Timeout != 0 && (c.Converter.Timeout < MinConverterTimeout || c.Converter.Timeout > MaxConverterTimeout) {
		return fmt.Errorf("%w: converter.timeout %s (must be between %s and %s)", ErrInvalidValue, c.Converter.Timeout, MinConverterTimeout, MaxConverterTimeout)
	}

	if err := validateFieldLength("log.level", c.Log.Level, MaxLevelLength); err != nil {
		return err
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d (must be 0 for auto, or positive)", ErrInvalidValue, c.Workers)
	}
	return nil
}

func isSupportedFormat(ext string) bool {
	for _, f := range SupportedFormats {
		if strings.EqualFold(ext, f) {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is operator-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// YAML renders the configuration as it would be written in a config file.
func (c *Config) YAML() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/gatepass/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
