package gatepass

import (
	"context"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// defaultQRSize is the edge length of generated QR images, in pixels.
const defaultQRSize = 256

// qrGenerator encodes content as a PNG image written to path.
type qrGenerator interface {
	Generate(ctx context.Context, content, path string) error
}

// goQRGenerator encodes QR codes with go-qrcode.
type goQRGenerator struct {
	size  int
	level qrcode.RecoveryLevel
}

func newQRGenerator() *goQRGenerator {
	return &goQRGenerator{size: defaultQRSize, level: qrcode.Medium}
}

// Generate encodes content as-is (no URL validation) and overwrites path.
func (g *goQRGenerator) Generate(ctx context.Context, content, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if content == "" {
		return fmt.Errorf("%w: %w", ErrQRGeneration, ErrEmptyQRContent)
	}

	png, err := qrcode.Encode(content, g.level, g.size)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQRGeneration, err)
	}
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrQRGeneration, path, err)
	}
	return nil
}
