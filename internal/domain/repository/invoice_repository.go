package repository

import (
	"context"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/entity"
)

// InvoiceRepository is the persistence port for archived invoices.
type InvoiceRepository interface {
	// Create stores the invoice; an invoice number already used by the same
	// user yields domain.ErrDuplicate.
	Create(ctx context.Context, inv *entity.ArchivedInvoice) error
	// ListByUser returns the user's invoices newest first, without payload and XML.
	ListByUser(ctx context.Context, userID string) ([]*entity.ArchivedInvoice, error)
	// GetByID returns nil, nil when the invoice does not exist or belongs to another user.
	GetByID(ctx context.Context, userID, id string) (*entity.ArchivedInvoice, error)
}
