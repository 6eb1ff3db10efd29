package main

import (
	"errors"
	"os"

	gatepass "github.com/alnah/go-gatepass"
	"github.com/alnah/go-gatepass/internal/config"
	"github.com/alnah/go-gatepass/internal/fileutil"
)

// Exit codes for the gatepass CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful run
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or submission
	ExitIO        = 3 // File not found, permission denied
	ExitConverter = 4 // LibreOffice missing, failing or timing out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Converter errors (exit 4)
	if errors.Is(err, gatepass.ErrConverterNotFound) ||
		errors.Is(err, gatepass.ErrConversion) ||
		errors.Is(err, gatepass.ErrConversionTimeout) {
		return ExitConverter
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, gatepass.ErrTemplateNotFound) ||
		errors.Is(err, gatepass.ErrPublish) ||
		errors.Is(err, fileutil.ErrNotDirectory) ||
		errors.Is(err, ErrLogFile) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrFileExists) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, gatepass.ErrMissingFields) {
		return ExitUsage
	}

	return ExitGeneral
}
