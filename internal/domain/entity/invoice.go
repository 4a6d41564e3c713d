package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

// ArchivedInvoice is an issued invoice kept per user. Payload is the form data
// the document was generated from; XML is the document as issued.
type ArchivedInvoice struct {
	ID            string
	UserID        string
	InvoiceNumber string
	Format        string // CII | UBL
	RecipientName string
	IssueDate     string // YYYY-MM-DD
	Currency      string
	NetTotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrossTotal    decimal.Decimal
	Payload       *invoice.Invoice
	XML           []byte
	Digest        string // hex SHA-256 of the canonical XML
	CreatedAt     time.Time
}
