package invoice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInvoice  = errors.New("invoice: invalid invoice data")
	ErrMalformedXML    = errors.New("invoice: malformed XML")
	ErrUnknownSyntax   = errors.New("invoice: unknown invoice syntax")
	ErrUnknownFormat   = errors.New("invoice: unsupported output format")
	ErrUnknownTemplate = errors.New("invoice: unknown PDF template")
)

// ValidationError lists every business-rule violation found in an invoice.
// Messages are user facing (German).
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invoice: %d validation error(s): %s", len(e.Messages), strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInvoice }

// ParseError reports XML that could not be turned into an invoice. No partial
// invoice accompanies it.
type ParseError struct {
	Op      string
	Message string // user facing
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invoice: parse %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("invoice: parse %s: %s", e.Op, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GenerationError is a caller defect: unknown format or template, nil invoice.
type GenerationError struct {
	Format string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("invoice: generate %s: %v", e.Format, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
