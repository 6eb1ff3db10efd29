package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	gatepass "github.com/alnah/go-gatepass"
	"github.com/alnah/go-gatepass/internal/config"
	"github.com/alnah/go-gatepass/internal/docx"
	"github.com/alnah/go-gatepass/internal/fileutil"
	"github.com/alnah/go-gatepass/internal/hints"
)

// versionTimeout bounds "soffice --version", which starts a full office
// process on some installations.
const versionTimeout = 20 * time.Second

// qrPlaceholder is the token replaced by the QR image in templates.
const qrPlaceholder = "{qr_code}"

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Converter converterInfo `json:"converter"`
	Template  templateInfo  `json:"template"`
	Storage   storageInfo   `json:"storage"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// converterInfo holds LibreOffice detection results.
type converterInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Format  string `json:"format"`
}

// templateInfo holds template inspection results.
type templateInfo struct {
	Path          string   `json:"path"`
	Found         bool     `json:"found"`
	Valid         bool     `json:"valid"`
	QRPlaceholder bool     `json:"qr_placeholder"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// storageInfo holds static directory checks.
type storageInfo struct {
	StaticDir string `json:"static_dir"`
	Writable  bool   `json:"writable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	ConverterBin  string `json:"converter_binary_env"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
	Workers      int  `json:"workers"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(args []string, env *Environment) int {
	f, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return report(env, err)
	}
	cfg, err := resolveConfig(f.common, f.runtime, "")
	if err != nil {
		return report(env, err)
	}

	result := runDoctor(cfg)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:           runtime.GOOS,
			Arch:         runtime.GOARCH,
			ConverterBin: os.Getenv(hints.ConverterBinaryEnv),
		},
		System: systemInfo{Workers: gatepass.ResolvePoolSize(cfg.Workers)},
	}

	checkConverter(result, cfg)
	checkTemplate(result, cfg)
	checkStorage(result, cfg)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConverter locates LibreOffice and reads its version.
func checkConverter(result *doctorResult, cfg *config.Config) {
	result.Converter.Format = gatepass.FormatExtension(cfg.Converter.Format)

	path, err := gatepass.ResolveConverterBinary(cfg.Converter.Binary)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("LibreOffice not found (%v). Install it or set %s", err, hints.ConverterBinaryEnv))
		return
	}
	result.Converter.Found = true
	result.Converter.Path = path

	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- resolved converter binary
	if err == nil {
		result.Converter.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get LibreOffice version: %v", err))
	}
}

// checkTemplate opens the template and looks for its placeholders.
func checkTemplate(result *doctorResult, cfg *config.Config) {
	path := cfg.Template.Path
	result.Template.Path = path

	if !fileutil.FileExists(path) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Template not found at %s. Run 'gatepass init' to create one", path))
		return
	}
	result.Template.Found = true

	doc, err := docx.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Template %s is not usable: %v", path, err))
		return
	}
	result.Template.Valid = true

	result.Template.QRPlaceholder = doc.Contains(qrPlaceholder)
	if !result.Template.QRPlaceholder {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Template has no %s placeholder; the QR code will be appended at the end", qrPlaceholder))
	}

	for _, f := range (gatepass.Submission{}).Fields() {
		if !doc.Contains("{" + f.Name + "}") {
			result.Template.MissingFields = append(result.Template.MissingFields, f.Name)
		}
	}
	if len(result.Template.MissingFields) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Template does not use: %s", strings.Join(result.Template.MissingFields, ", ")))
	}
}

// checkStorage verifies the static directory is writable.
func checkStorage(result *doctorResult, cfg *config.Config) {
	result.Storage.StaticDir = cfg.Storage.StaticDir
	if err := fileutil.DirWritable(cfg.Storage.StaticDir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Static directory not writable: %v", err))
		return
	}
	result.Storage.Writable = true
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// Containers rarely ship fonts; converted passes fall back to substitutes.
	if result.Env.Container && !result.Converter.Found {
		result.Warnings = append(result.Warnings,
			"Container detected without LibreOffice. Install libreoffice-writer-nogui and fonts-dejavu")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("GATEPASS_CONTAINER") == "1" {
		return true, "GATEPASS_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies system requirements.
// LibreOffice profiles are created under the temp directory.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "gatepass-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "gatepass doctor")
	fmt.Fprintln(w)

	// Converter section
	fmt.Fprintln(w, "LibreOffice")
	if r.Converter.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Converter.Path)
		if r.Converter.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Converter.Version)
		}
		fmt.Fprintf(w, "  [OK] Output format: %s\n", r.Converter.Format)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	// Template section
	fmt.Fprintln(w, "Template")
	switch {
	case !r.Template.Found:
		fmt.Fprintf(w, "  [ERROR] Not found: %s\n", r.Template.Path)
	case !r.Template.Valid:
		fmt.Fprintf(w, "  [ERROR] Not a Word document: %s\n", r.Template.Path)
	default:
		fmt.Fprintf(w, "  [OK] %s\n", r.Template.Path)
		if r.Template.QRPlaceholder {
			fmt.Fprintf(w, "  [OK] %s placeholder present\n", qrPlaceholder)
		} else {
			fmt.Fprintf(w, "  [WARN] %s placeholder missing\n", qrPlaceholder)
		}
	}
	fmt.Fprintln(w)

	// Storage section
	fmt.Fprintln(w, "Storage")
	if r.Storage.Writable {
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Storage.StaticDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Storage.StaticDir)
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintf(w, "  [OK] Workers: %d\n", r.System.Workers)
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to generate gate passes")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
