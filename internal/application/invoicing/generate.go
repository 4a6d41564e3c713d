package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

// Defaults fill in what the request leaves open.
type Defaults struct {
	Format          Format
	Template        string
	CustomizationID string
	ProfileID       string
}

// GenerateUseCase validates an invoice and renders it in the requested format.
type GenerateUseCase struct {
	cii      XMLBuilder
	ubl      XMLBuilder
	renderer PDFRenderer
	attacher PDFAttacher
	defaults Defaults
	log      zerolog.Logger
}

// NewGenerateUseCase wires the builders and PDF collaborators.
func NewGenerateUseCase(
	cii, ubl XMLBuilder,
	renderer PDFRenderer,
	attacher PDFAttacher,
	defaults Defaults,
	log zerolog.Logger,
) *GenerateUseCase {
	if defaults.Format == "" {
		defaults.Format = FormatZUGFeRD
	}
	return &GenerateUseCase{
		cii:      cii,
		ubl:      ubl,
		renderer: renderer,
		attacher: attacher,
		defaults: defaults,
		log:      log,
	}
}

// DefaultFormat is used when a request names none.
func (uc *GenerateUseCase) DefaultFormat() Format { return uc.defaults.Format }

// Generate returns the document for inv.
//
// Returns:
//   - *invoice.ValidationError  when the invoice breaks a business rule.
//   - *invoice.GenerationError  for an unknown format or template.
func (uc *GenerateUseCase) Generate(ctx context.Context, inv *invoice.Invoice, format, template string) (*Document, error) {
	// ── 1. Resolve request ───────────────────────────────────────────────────
	f := uc.defaults.Format
	if format != "" {
		parsed, err := ParseFormat(format)
		if err != nil {
			return nil, err
		}
		f = parsed
	}
	if template == "" {
		template = uc.defaults.Template
	}
	if inv == nil {
		return nil, &invoice.GenerationError{Format: string(f), Err: errors.New("nil invoice")}
	}

	// ── 2. Validate on a copy carrying the configured identifiers ────────────
	doc := uc.withDefaults(inv)
	if err := invoice.Validate(doc).Err(); err != nil {
		return nil, err
	}
	totals := doc.Totals()
	nr := doc.Metadata.InvoiceNumber

	// ── 3. Render ────────────────────────────────────────────────────────────
	var (
		out *Document
		err error
	)
	switch f {
	case FormatCII:
		out, err = uc.xml(doc, uc.cii, xrechnung.SyntaxCII)
	case FormatUBL:
		out, err = uc.xml(doc, uc.ubl, xrechnung.SyntaxUBL)
	case FormatZUGFeRD:
		out, err = uc.zugferd(ctx, doc, template)
	case FormatPDF:
		out, err = uc.pdfOnly(ctx, doc, template)
	case FormatZIP:
		out, err = uc.bundle(ctx, doc, template)
	}
	if err != nil {
		return nil, err
	}
	out.Totals = totals

	uc.log.Info().
		Str("invoice_number", nr).
		Str("format", string(f)).
		Int("bytes", len(out.Content)).
		Int("items", len(doc.Items)).
		Msg("invoice document generated")
	return out, nil
}

func (uc *GenerateUseCase) withDefaults(inv *invoice.Invoice) *invoice.Invoice {
	doc := *inv
	if doc.Metadata.CustomizationID == "" {
		doc.Metadata.CustomizationID = uc.defaults.CustomizationID
	}
	if doc.Metadata.ProfileID == "" {
		doc.Metadata.ProfileID = uc.defaults.ProfileID
	}
	return &doc
}

func (uc *GenerateUseCase) xml(inv *invoice.Invoice, b XMLBuilder, syntax xrechnung.Syntax) (*Document, error) {
	content, err := b.Build(inv)
	if err != nil {
		return nil, fmt.Errorf("invoicing: build %s: %w", syntax, err)
	}
	return &Document{
		Filename: xrechnung.XMLFilename(inv.Metadata.InvoiceNumber, syntax),
		MimeType: MimeXML,
		Content:  content,
	}, nil
}

func (uc *GenerateUseCase) zugferd(ctx context.Context, inv *invoice.Invoice, template string) (*Document, error) {
	visual, err := uc.renderer.Render(ctx, inv, template)
	if err != nil {
		return nil, fmt.Errorf("invoicing: render pdf: %w", err)
	}
	cii, err := uc.cii.Build(inv)
	if err != nil {
		return nil, fmt.Errorf("invoicing: build CII: %w", err)
	}
	content, err := uc.attacher.Attach(ctx, visual, xrechnung.EmbeddedXMLFilename, MimeXML, cii)
	if err != nil {
		return nil, fmt.Errorf("invoicing: embed CII: %w", err)
	}
	return &Document{
		Filename: xrechnung.ZUGFeRDFilename(inv.Metadata.InvoiceNumber),
		MimeType: MimePDF,
		Content:  content,
	}, nil
}

func (uc *GenerateUseCase) pdfOnly(ctx context.Context, inv *invoice.Invoice, template string) (*Document, error) {
	content, err := uc.renderer.Render(ctx, inv, template)
	if err != nil {
		return nil, fmt.Errorf("invoicing: render pdf: %w", err)
	}
	return &Document{
		Filename: xrechnung.PDFFilename(inv.Metadata.InvoiceNumber),
		MimeType: MimePDF,
		Content:  content,
	}, nil
}

func (uc *GenerateUseCase) bundle(ctx context.Context, inv *invoice.Invoice, template string) (*Document, error) {
	cii, err := uc.xml(inv, uc.cii, xrechnung.SyntaxCII)
	if err != nil {
		return nil, err
	}
	ubl, err := uc.xml(inv, uc.ubl, xrechnung.SyntaxUBL)
	if err != nil {
		return nil, err
	}
	zf, err := uc.zugferd(ctx, inv, template)
	if err != nil {
		return nil, err
	}
	content, err := xrechnung.Bundle(
		xrechnung.BundleEntry{Name: cii.Filename, Content: cii.Content},
		xrechnung.BundleEntry{Name: ubl.Filename, Content: ubl.Content},
		xrechnung.BundleEntry{Name: zf.Filename, Content: zf.Content},
	)
	if err != nil {
		return nil, fmt.Errorf("invoicing: bundle: %w", err)
	}
	return &Document{
		Filename: xrechnung.BundleFilename(inv.Metadata.InvoiceNumber),
		MimeType: MimeZIP,
		Content:  content,
	}, nil
}
