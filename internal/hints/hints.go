// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-gatepass/internal/fileutil"
)

// ConverterBinaryEnv names the environment variable overriding the
// LibreOffice executable.
const ConverterBinaryEnv = "GATEPASS_CONVERTER_BINARY"

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForConverterNotFound returns hints for a missing LibreOffice executable.
// Detects CI/Docker environment and suggests the headless package.
func ForConverterNotFound() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "install libreoffice-writer-nogui (Debian/Ubuntu) in the image")
	} else {
		hints = append(hints, "install LibreOffice and make sure soffice is on PATH")
	}

	if os.Getenv(ConverterBinaryEnv) == "" {
		hints = append(hints, "or set "+ConverterBinaryEnv+" to the soffice executable")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the conversion timeout.
func ForTimeout() string {
	return format("LibreOffice is slow on first start; raise converter.timeout or use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/gatepass/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/gatepass") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForTemplateNotFound returns hints for a missing DOCX template.
func ForTemplateNotFound(path string) string {
	return format("run 'gatepass init --template " + path + "' to write a starter template, or use --template")
}

// ForStaticDir returns hints for static directory errors.
func ForStaticDir() string {
	return format("check the static directory exists and is writable by the service user")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
