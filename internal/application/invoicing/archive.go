package invoicing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/entity"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/repository"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/jwt"
)

// Download kinds of an archived invoice.
const (
	DownloadXML = "xml"
	DownloadPDF = "pdf"
)

// LinkConfig controls signed download links.
type LinkConfig struct {
	Secret  string
	Issuer  string
	BaseURL string
	TTL     time.Duration
}

// DownloadURL is a signed, expiring link to one archived document.
type DownloadURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ArchiveUseCase issues invoices into the per-user archive and serves them back.
type ArchiveUseCase struct {
	repo  repository.InvoiceRepository
	gen   *GenerateUseCase
	links LinkConfig
	log   zerolog.Logger
	now   func() time.Time
}

// NewArchiveUseCase builds the use case.
func NewArchiveUseCase(repo repository.InvoiceRepository, gen *GenerateUseCase, links LinkConfig, log zerolog.Logger) *ArchiveUseCase {
	return &ArchiveUseCase{repo: repo, gen: gen, links: links, log: log, now: time.Now}
}

// Create validates inv, generates its XML and stores payload, XML, digest and totals.
//
// Returns:
//   - *invoice.ValidationError  when the invoice breaks a business rule.
//   - domain.ErrInvalidInput    for formats other than CII and UBL.
//   - domain.ErrDuplicate       when the user already archived this invoice number.
func (uc *ArchiveUseCase) Create(ctx context.Context, userID string, inv *invoice.Invoice, format string) (*entity.ArchivedInvoice, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if format == "" {
		format = string(FormatCII)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	syntax, ok := f.Syntax()
	if !ok {
		return nil, fmt.Errorf("%w: only CII and UBL can be archived, got %s", domain.ErrInvalidInput, f)
	}

	// ── 1. Generate (validates) ─────────────────────────────────────────────
	doc, err := uc.gen.Generate(ctx, inv, string(f), "")
	if err != nil {
		return nil, err
	}

	// ── 2. Fingerprint ──────────────────────────────────────────────────────
	digest, err := xrechnung.Digest(doc.Content)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_number", inv.Metadata.InvoiceNumber).Msg("archive: digest failed, storing without")
		digest = ""
	}

	// ── 3. Persist ──────────────────────────────────────────────────────────
	rounded := doc.Totals.Rounded()
	rec := &entity.ArchivedInvoice{
		ID:            uuid.New().String(),
		UserID:        userID,
		InvoiceNumber: inv.Metadata.InvoiceNumber,
		Format:        string(syntax),
		RecipientName: inv.Recipient.Name,
		IssueDate:     inv.Metadata.Date,
		Currency:      inv.Metadata.CurrencyCode(),
		NetTotal:      rounded.Subtotal,
		TaxTotal:      rounded.TaxAmount,
		GrossTotal:    rounded.Total,
		Payload:       inv,
		XML:           doc.Content,
		Digest:        digest,
		CreatedAt:     uc.now().UTC(),
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("invoicing: archive: %w", err)
	}

	uc.log.Info().
		Str("invoice_id", rec.ID).
		Str("invoice_number", rec.InvoiceNumber).
		Str("format", rec.Format).
		Str("digest", rec.Digest).
		Msg("invoice archived")
	return rec, nil
}

// List returns the user's archived invoices, newest first.
func (uc *ArchiveUseCase) List(ctx context.Context, userID string) ([]*entity.ArchivedInvoice, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("invoicing: list archive: %w", err)
	}
	return list, nil
}

// Get returns one archived invoice; domain.ErrNotFound when the user has none with that id.
func (uc *ArchiveUseCase) Get(ctx context.Context, userID, id string) (*entity.ArchivedInvoice, error) {
	rec, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("invoicing: get archived invoice: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Download returns the stored XML as issued, or a ZUGFeRD PDF regenerated from the payload.
func (uc *ArchiveUseCase) Download(ctx context.Context, userID, id, kind string) (*Document, error) {
	rec, err := uc.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	switch normalizeDownloadKind(kind) {
	case DownloadXML:
		if rec.Digest != "" {
			if sum, err := xrechnung.Digest(rec.XML); err != nil || sum != rec.Digest {
				uc.log.Error().Str("invoice_id", rec.ID).Msg("archive: stored XML does not match its digest")
			}
		}
		return &Document{
			Filename: xrechnung.XMLFilename(rec.InvoiceNumber, xrechnung.Syntax(rec.Format)),
			MimeType: MimeXML,
			Content:  rec.XML,
		}, nil
	case DownloadPDF:
		return uc.gen.Generate(ctx, rec.Payload, string(FormatZUGFeRD), "")
	}
	return nil, fmt.Errorf("%w: unknown download format %q", domain.ErrInvalidInput, kind)
}

// DownloadURL signs a link that serves the document without a bearer token
// until it expires. The invoice must exist for userID.
func (uc *ArchiveUseCase) DownloadURL(ctx context.Context, userID, id, kind string) (*DownloadURL, error) {
	kind = normalizeDownloadKind(kind)
	if kind != DownloadXML && kind != DownloadPDF {
		return nil, fmt.Errorf("%w: unknown download format %q", domain.ErrInvalidInput, kind)
	}
	if _, err := uc.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	expiresAt := uc.now().Add(uc.links.TTL).UTC().Truncate(time.Second)
	token, err := jwt.GenerateDownload(uc.links.Secret, uc.links.Issuer, jwt.DownloadClaims{
		UserID:    userID,
		InvoiceID: id,
		Format:    kind,
	}, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("invoicing: sign download token: %w", err)
	}
	return &DownloadURL{
		URL:       strings.TrimRight(uc.links.BaseURL, "/") + "/api/downloads/" + token,
		ExpiresAt: expiresAt,
	}, nil
}

// DownloadByToken serves the document a DownloadURL token was issued for.
func (uc *ArchiveUseCase) DownloadByToken(ctx context.Context, token string) (*Document, error) {
	claims, err := jwt.ParseDownload(uc.links.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return uc.Download(ctx, claims.UserID, claims.InvoiceID, claims.Format)
}

func normalizeDownloadKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return DownloadXML
	}
	return kind
}
