package gatepass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-gatepass/internal/fileutil"
	"github.com/alnah/go-gatepass/internal/process"
)

// converterCandidates are looked up on PATH, in order, when no binary is configured.
var converterCandidates = []string{"soffice", "libreoffice"}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// waitDelay bounds how long Wait blocks on inherited pipes after the
// converter process group was killed.
const waitDelay = 5 * time.Second

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (output string, err error)
}

// execRunner implements CommandRunner using os/exec. The command runs in
// its own process group, killed as a whole when ctx is done.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary comes from operator config
	process.Configure(cmd)
	cmd.WaitDelay = waitDelay

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}

// documentConverter turns a document into a sibling file of another format.
type documentConverter interface {
	Convert(ctx context.Context, inputPath string) (outputPath string, err error)
}

// sofficeConverter converts documents with LibreOffice in headless mode.
type sofficeConverter struct {
	runner  CommandRunner
	binary  string // configured binary, empty means look up candidates
	format  string // LibreOffice --convert-to argument
	timeout time.Duration
}

func newSofficeConverter(binary, format string, timeout time.Duration) *sofficeConverter {
	return &sofficeConverter{
		runner:  &execRunner{},
		binary:  binary,
		format:  format,
		timeout: timeout,
	}
}

// Convert writes <input base>.<ext> next to inputPath and returns its path.
// Success is decided by the existence of that file after LibreOffice exits.
func (c *sofficeConverter) Convert(ctx context.Context, inputPath string) (string, error) {
	bin, err := ResolveConverterBinary(c.binary)
	if err != nil {
		return "", err
	}

	// A private profile lets conversions run side by side; LibreOffice
	// refuses to start twice on the same user installation.
	profile, err := os.MkdirTemp("", "gatepass-soffice-*")
	if err != nil {
		return "", fmt.Errorf("%w: creating profile dir: %v", ErrConversion, err)
	}
	defer func() { _ = os.RemoveAll(profile) }()

	outDir := filepath.Dir(inputPath)
	args := []string{
		"-env:UserInstallation=" + fileURL(profile),
		"--headless",
		"--nologo",
		"--nodefault",
		"--norestore",
		"--nolockcheck",
		"--convert-to", c.format,
		"--outdir", outDir,
		inputPath,
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Run(runCtx, bin, args...)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return "", fmt.Errorf("%w: %w", ErrConversion, ctx.Err())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%w: %w after %s", ErrConversion, ErrConversionTimeout, c.timeout)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrConversion, condense(out), err)
	}

	target := convertedPath(inputPath, c.format)
	if !fileutil.FileExists(target) {
		return "", fmt.Errorf("%w: no output at %s: %s", ErrConversion, target, condense(out))
	}
	return target, nil
}

// ResolveConverterBinary returns the LibreOffice executable to run.
// A configured value containing a path separator must name an existing
// file; a bare name is looked up on PATH. Without a configured value the
// default candidates are tried in order.
func ResolveConverterBinary(configured string) (string, error) {
	if configured != "" {
		if fileutil.IsFilePath(configured) {
			if fileutil.FileExists(configured) {
				return configured, nil
			}
			return "", fmt.Errorf("%w: %s", ErrConverterNotFound, configured)
		}
		path, err := lookPath(configured)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrConverterNotFound, configured)
		}
		return path, nil
	}

	for _, name := range converterCandidates {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConverterNotFound, strings.Join(converterCandidates, ", "))
}

// FormatExtension returns the file extension produced by a --convert-to
// argument ("pdf:writer_pdf_Export" produces "pdf").
func FormatExtension(format string) string {
	ext, _, _ := strings.Cut(format, ":")
	return ext
}

// convertedPath is the sibling of inputPath with the format's extension.
func convertedPath(inputPath, format string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + FormatExtension(format)
}

// fileURL converts a local path to a file:// URL, as expected by
// -env:UserInstallation on every platform.
func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/... on Windows
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// condense keeps converter output on a single bounded line for error messages.
func condense(out string) string {
	const limit = 512
	out = strings.Join(strings.Fields(out), " ")
	if len(out) > limit {
		out = out[:limit] + "..."
	}
	return out
}
