package gatepass

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alnah/go-gatepass/internal/docx"
)

// QR placement constants.
const (
	qrToken = "{qr_code}"

	// cellQRWidth is the display width of a QR code placed in a cell.
	cellQRWidth = 1.5 // inches

	// appendedQRWidth is used when the template has no {qr_code} token.
	appendedQRWidth = 2.0 // inches

	appendedQRCaption = "Scan the QR code to view your Gate Pass:"
)

// templateFiller writes a filled copy of a template to destPath.
type templateFiller interface {
	Fill(ctx context.Context, templatePath, destPath string, fields Fields, qrImagePath string) error
}

// docxFiller fills WordprocessingML templates.
type docxFiller struct{}

// Fill substitutes fields into every paragraph and table cell of the
// template, embeds the QR image and saves the result atomically.
//
// The QR image replaces every cell (or body paragraph) whose text contains
// {qr_code}. It is placed before field substitution so that a submitted
// value can never turn into a QR placeholder. When the template has no
// {qr_code} token the image is appended once, under a caption.
func (f *docxFiller) Fill(ctx context.Context, templatePath, destPath string, fields Fields, qrImagePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := docx.Open(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w: %s", ErrTemplateFill, ErrTemplateNotFound, templatePath)
		}
		return fmt.Errorf("%w: %w", ErrTemplateFill, err)
	}

	qr, err := os.ReadFile(qrImagePath) // #nosec G304 -- request-scoped path built by the service
	if err != nil {
		return fmt.Errorf("%w: reading QR image: %w", ErrTemplateFill, err)
	}
	img, err := doc.AddImage(qr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemplateFill, err)
	}
	if doc.ReplaceToken(qrToken, img, cellQRWidth) == 0 {
		doc.AppendImage(appendedQRCaption, img, appendedQRWidth)
	}

	doc.ReplaceText(fields.replacements())

	if err := doc.Save(destPath); err != nil {
		return fmt.Errorf("%w: %w", ErrTemplateFill, err)
	}
	return nil
}
