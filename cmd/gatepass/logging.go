package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-gatepass/internal/config"
)

// ErrLogFile is returned when the log file cannot be opened.
var ErrLogFile = errors.New("cannot open log file")

const logFilePermissions = 0o640

// newLogger builds the process logger: text lines with full timestamps,
// written to stderr and appended to the configured log file.
// --verbose forces debug, --quiet keeps warnings and errors only.
// The returned close function releases the log file.
func newLogger(cfg config.LogConfig, common commonFlags, stderr io.Writer) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: log level %q", config.ErrInvalidValue, cfg.Level)
		}
		level = parsed
	}
	switch {
	case common.verbose:
		level = logrus.DebugLevel
	case common.quiet && level > logrus.WarnLevel:
		level = logrus.WarnLevel
	}
	log.SetLevel(level)

	closeFn := func() error { return nil }
	out := stderr
	if cfg.Path != "" {
		// Append-only: restarts never truncate earlier diagnostics.
		f, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePermissions) // #nosec G304 -- operator-provided path
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrLogFile, err)
		}
		out = io.MultiWriter(stderr, f)
		closeFn = f.Close
	}
	log.SetOutput(out)

	return log, closeFn, nil
}
