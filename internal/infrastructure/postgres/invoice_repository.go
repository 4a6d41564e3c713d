package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/entity"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository (usable with pool or tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or a tx.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create stores the archived invoice with payload and XML.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.ArchivedInvoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(inv.Payload)
	if err != nil {
		return fmt.Errorf("marshal invoice payload: %w", err)
	}

	query := `
		INSERT INTO invoices (id, user_id, invoice_number, format, recipient_name, issue_date, currency,
		                      net_total, tax_total, gross_total, payload, xml, digest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.UserID, inv.InvoiceNumber, inv.Format, inv.RecipientName, inv.IssueDate, inv.Currency,
		inv.NetTotal, inv.TaxTotal, inv.GrossTotal, payload, string(inv.XML), nullIfEmpty(inv.Digest),
		inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s already archived: %w", inv.InvoiceNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// ListByUser returns the summaries of a user's invoices, newest first.
func (r *InvoiceRepo) ListByUser(ctx context.Context, userID string) ([]*entity.ArchivedInvoice, error) {
	query := `
		SELECT id, user_id, invoice_number, format, recipient_name, issue_date, currency,
		       net_total, tax_total, gross_total, digest, created_at
		FROM invoices WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	list := []*entity.ArchivedInvoice{}
	for rows.Next() {
		var a entity.ArchivedInvoice
		var digest *string
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.InvoiceNumber, &a.Format, &a.RecipientName, &a.IssueDate, &a.Currency,
			&a.NetTotal, &a.TaxTotal, &a.GrossTotal, &digest, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		a.Digest = derefStr(digest)
		list = append(list, &a)
	}
	return list, rows.Err()
}

// GetByID returns the full archived invoice, or nil when the user has none with that id.
func (r *InvoiceRepo) GetByID(ctx context.Context, userID, id string) (*entity.ArchivedInvoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `
		SELECT id, user_id, invoice_number, format, recipient_name, issue_date, currency,
		       net_total, tax_total, gross_total, payload, xml, digest, created_at
		FROM invoices WHERE id = $1 AND user_id = $2`
	var a entity.ArchivedInvoice
	var payload []byte
	var xml string
	var digest *string
	err := r.q.QueryRow(ctx, query, id, userID).Scan(
		&a.ID, &a.UserID, &a.InvoiceNumber, &a.Format, &a.RecipientName, &a.IssueDate, &a.Currency,
		&a.NetTotal, &a.TaxTotal, &a.GrossTotal, &payload, &xml, &digest, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	a.Payload = &invoice.Invoice{}
	if err := json.Unmarshal(payload, a.Payload); err != nil {
		return nil, fmt.Errorf("decode invoice payload: %w", err)
	}
	a.XML = []byte(xml)
	a.Digest = derefStr(digest)
	return &a, nil
}
