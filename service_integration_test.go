//go:build integration

package gatepass

// Notes:
// - Requires LibreOffice (soffice or libreoffice on PATH); tests are skipped
//   otherwise.
// - The PDF is only checked for its magic header; rendering fidelity is
//   not asserted.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// testTimeout bounds one LibreOffice conversion, including cold start.
const testTimeout = 2 * time.Minute

func requireConverter(t *testing.T) {
	t.Helper()
	if _, err := ResolveConverterBinary(""); err != nil {
		t.Skipf("LibreOffice not available: %v", err)
	}
}

func TestIntegration_Generate_PDF(t *testing.T) {
	requireConverter(t)

	s, static := newTestService(t, WithTimeout(testTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	art, err := s.Generate(ctx, validSubmission())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(art.Path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("artifact does not start with %%PDF")
	}
	assertNoStaging(t, static)
}

func TestIntegration_Generate_Concurrent(t *testing.T) {
	requireConverter(t)

	s, _ := newTestService(t, WithTimeout(testTimeout), WithWorkers(2))

	ctx, cancel := context.WithTimeout(context.Background(), 2*testTimeout)
	defer cancel()

	names := []string{"Asha", "Ravi", "Meera"}
	errs := make(chan error, len(names))
	for _, name := range names {
		go func(name string) {
			sub := validSubmission()
			sub.Name = name
			_, err := s.Generate(ctx, sub)
			errs <- err
		}(name)
	}
	for range names {
		if err := <-errs; err != nil {
			t.Errorf("Generate() error = %v", err)
		}
	}
}

func TestIntegration_Convert_Timeout(t *testing.T) {
	requireConverter(t)

	dir := t.TempDir()
	input := writeTemplate(t, dir, gatePassTemplate())

	c := newSofficeConverter("", "pdf", time.Millisecond)
	_, err := c.Convert(context.Background(), input)
	if !errors.Is(err, ErrConversionTimeout) {
		t.Errorf("Convert() error = %v, want ErrConversionTimeout", err)
	}
}
