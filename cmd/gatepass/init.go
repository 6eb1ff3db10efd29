package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-gatepass/internal/config"
	"github.com/alnah/go-gatepass/internal/docx"
)

// ErrFileExists is returned by init when the target exists and --force is not set.
var ErrFileExists = errors.New("file already exists")

const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// starterTemplate returns the body of the template written by init: one
// labelled row per field, and a cell holding the QR code.
func starterTemplate() string {
	return docx.Paragraph("GATE PASS") +
		docx.Table([][]string{
			{"Name", "{name}"},
			{"Roll No.", "{roll_no}"},
			{"From", "{from}"},
			{"To", "{to}"},
			{"Arrival Date", "{arrivaldate}"},
			{"Arrival Time", "{arrivaltime}"},
			{"Home Address", "{home_address}"},
			{"Student Contact No.", "{student_contact_no}"},
			{"Parent Name", "{parent_name}"},
			{"Parent Contact No.", "{parent_contact_no}"},
			{"Verification", "{qr_code}"},
		}) +
		docx.Paragraph("Signature of Warden: ____________________")
}

// runInitCmd writes a starter DOCX template.
func runInitCmd(args []string, env *Environment) error {
	f, err := parseInitFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	path := f.template
	if path == "" {
		path = config.DefaultTemplatePath
	}

	var buf bytes.Buffer
	if err := docx.Build(&buf, starterTemplate()); err != nil {
		return fmt.Errorf("building template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !f.force {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, filePermissions) // #nosec G304 -- operator-provided path
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, path)
		}
		return fmt.Errorf("writing template: %w", err)
	}
	if _, err := buf.WriteTo(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing template: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}

	fmt.Fprintf(env.Stdout, "wrote %s\n", path)
	return nil
}
