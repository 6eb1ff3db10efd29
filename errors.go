package gatepass

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrMissingFields = errors.New("missing required fields")

	// QR generation errors.
	ErrQRGeneration   = errors.New("QR code generation failed")
	ErrEmptyQRContent = errors.New("QR content cannot be empty")

	// Template errors.
	ErrTemplateFill     = errors.New("template fill failed")
	ErrTemplateNotFound = errors.New("template not found")

	// Conversion errors.
	ErrConversion        = errors.New("document conversion failed")
	ErrConversionTimeout = errors.New("document conversion timed out")
	ErrConverterNotFound = errors.New("converter binary not found")

	// Storage errors.
	ErrNotFound = errors.New("gate pass not found")
	ErrPublish  = errors.New("publishing gate pass failed")

	ErrPoolClosed = errors.New("worker pool closed")
)
