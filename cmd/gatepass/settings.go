package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	gatepass "github.com/alnah/go-gatepass"
	"github.com/alnah/go-gatepass/internal/config"
	"github.com/alnah/go-gatepass/internal/hints"
)

// ErrInvalidTimeout is returned for an unparsable or non-positive --timeout.
var ErrInvalidTimeout = errors.New("invalid timeout")

// resolveConfig builds the effective configuration:
// CLI flags > GATEPASS_* variables > config file > defaults.
// The config file comes from --config, else GATEPASS_CONFIG; without
// either, defaults are used.
func resolveConfig(common commonFlags, rt runtimeFlags, addr string) (*config.Config, error) {
	env := loadEnvConfig()

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(triedPaths(err)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	if err := mergeFlags(rt, addr, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags to cfg.
func mergeFlags(rt runtimeFlags, addr string, cfg *config.Config) error {
	setString(&cfg.Server.Addr, addr)
	setString(&cfg.Server.BaseURL, rt.baseURL)
	setString(&cfg.Storage.StaticDir, rt.staticDir)
	setString(&cfg.Template.Path, rt.template)
	setString(&cfg.Converter.Binary, rt.binary)
	setString(&cfg.Converter.Format, rt.format)
	setString(&cfg.Log.Path, rt.logPath)
	setString(&cfg.Log.Level, rt.logLevel)

	if rt.timeout != "" {
		d, err := parseTimeout(rt.timeout)
		if err != nil {
			return err
		}
		cfg.Converter.Timeout = d
	}
	if rt.workers < 0 {
		return fmt.Errorf("%w: --workers %d (must be 0 for auto, or positive)", ErrUsage, rt.workers)
	}
	if rt.workers > 0 {
		cfg.Workers = rt.workers
	}
	return nil
}

// parseTimeout parses a --timeout value.
func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use a duration like 30s or 2m)", ErrInvalidTimeout, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, s)
	}
	return d, nil
}

// triedPaths extracts the searched locations from a config-not-found error.
func triedPaths(err error) []string {
	_, list, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}

// newService builds the pipeline from the effective configuration.
func newService(cfg *config.Config, log logrus.FieldLogger, now func() time.Time) *gatepass.Service {
	opts := []gatepass.Option{
		gatepass.WithLogger(log),
		gatepass.WithStaticDir(cfg.Storage.StaticDir),
		gatepass.WithBaseURL(cfg.Server.BaseURL),
		gatepass.WithFormat(cfg.Converter.Format),
		gatepass.WithConverterBinary(cfg.Converter.Binary),
		gatepass.WithWorkers(cfg.Workers),
		gatepass.WithClock(now),
	}
	if cfg.Converter.Timeout > 0 {
		opts = append(opts, gatepass.WithTimeout(cfg.Converter.Timeout))
	}
	return gatepass.NewService(cfg.Template.Path, opts...)
}

// withHint appends the actionable hint matching err, if any.
func withHint(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, gatepass.ErrConverterNotFound):
		return fmt.Errorf("%w%s", err, hints.ForConverterNotFound())
	case errors.Is(err, gatepass.ErrConversionTimeout):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, gatepass.ErrTemplateNotFound):
		return fmt.Errorf("%w%s", err, hints.ForTemplateNotFound(cfg.Template.Path))
	case errors.Is(err, gatepass.ErrPublish):
		return fmt.Errorf("%w%s", err, hints.ForStaticDir())
	}
	return err
}
