package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/entity"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

// TotalsResponse body of POST /api/invoices/totals: exact figures plus the
// rounded ones printed on documents.
type TotalsResponse struct {
	Totals  invoice.Totals `json:"totals"`
	Rounded invoice.Totals `json:"rounded"`
}

// CreateInvoiceResponse body of POST /api/invoices.
type CreateInvoiceResponse struct {
	Success   bool   `json:"success"`
	InvoiceID string `json:"invoiceId"`
	Digest    string `json:"digest,omitempty"`
}

// ArchivedInvoiceResponse one archive entry. Invoice is only set on the detail route.
type ArchivedInvoiceResponse struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoiceNumber"`
	Format        string           `json:"format"`
	RecipientName string           `json:"recipientName"`
	IssueDate     string           `json:"issueDate"`
	Currency      string           `json:"currency"`
	NetTotal      decimal.Decimal  `json:"netTotal"`
	TaxTotal      decimal.Decimal  `json:"taxTotal"`
	GrossTotal    decimal.Decimal  `json:"grossTotal"`
	Digest        string           `json:"digest,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	Invoice       *invoice.Invoice `json:"invoice,omitempty"`
}

// InvoiceListResponse body of GET /api/invoices.
type InvoiceListResponse struct {
	Invoices []ArchivedInvoiceResponse `json:"invoices"`
	Total    int                       `json:"total"`
}

// UploadURLRequest body of POST /api/invoices/upload-url. fileType is
// accepted as an alias of mimeType.
type UploadURLRequest struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileType string `json:"fileType"`
}

// ContentType returns mimeType, falling back to fileType.
func (r UploadURLRequest) ContentType() string {
	if r.MimeType != "" {
		return r.MimeType
	}
	return r.FileType
}

// ToArchivedInvoiceResponse maps an archive entity; withPayload adds the invoice.
func ToArchivedInvoiceResponse(a *entity.ArchivedInvoice, withPayload bool) ArchivedInvoiceResponse {
	out := ArchivedInvoiceResponse{
		ID:            a.ID,
		InvoiceNumber: a.InvoiceNumber,
		Format:        a.Format,
		RecipientName: a.RecipientName,
		IssueDate:     a.IssueDate,
		Currency:      a.Currency,
		NetTotal:      a.NetTotal,
		TaxTotal:      a.TaxTotal,
		GrossTotal:    a.GrossTotal,
		Digest:        a.Digest,
		CreatedAt:     a.CreatedAt,
	}
	if withPayload {
		out.Invoice = a.Payload
	}
	return out
}

// ToInvoiceListResponse maps a list of archive entities without payloads.
func ToInvoiceListResponse(list []*entity.ArchivedInvoice) InvoiceListResponse {
	out := InvoiceListResponse{Invoices: make([]ArchivedInvoiceResponse, 0, len(list)), Total: len(list)}
	for _, a := range list {
		out.Invoices = append(out.Invoices, ToArchivedInvoiceResponse(a, false))
	}
	return out
}
