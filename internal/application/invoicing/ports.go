package invoicing

import (
	"context"
	"io"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

// XMLBuilder renders an invoice in one XML syntax (CII or UBL).
type XMLBuilder interface {
	Build(inv *invoice.Invoice) ([]byte, error)
}

// PDFRenderer draws the visual invoice with a named template.
type PDFRenderer interface {
	Render(ctx context.Context, inv *invoice.Invoice, template string) ([]byte, error)
}

// PDFAttacher embeds a file of the given MIME type into an existing PDF.
type PDFAttacher interface {
	Attach(ctx context.Context, doc []byte, name, mimeType string, content []byte) ([]byte, error)
}

// InvoiceParser reads CII or UBL documents.
type InvoiceParser interface {
	Parse(ctx context.Context, data []byte) (*xrechnung.Parsed, error)
}

// FileStore keeps uploaded files under a storage key.
type FileStore interface {
	// Save writes at most limit bytes from r; larger bodies fail with ErrTooLarge.
	// An existing key is never overwritten and fails with ErrAlreadyUploaded.
	Save(ctx context.Context, key string, r io.Reader, limit int64) (int64, error)
}
