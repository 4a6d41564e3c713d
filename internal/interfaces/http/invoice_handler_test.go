package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/auth"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/entity"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
	apphttp "github.com/DennisBaerXY/kostenlose-erechnung/internal/interfaces/http"
)

// ── Fakes ───────────────────────────────────────────────────────────────────

type stubRenderer struct{}

func (stubRenderer) Render(_ context.Context, _ *invoice.Invoice, template string) ([]byte, error) {
	if template != "classic" {
		return nil, &invoice.GenerationError{Format: "PDF", Err: invoice.ErrUnknownTemplate}
	}
	return []byte("%PDF-1.7 stub"), nil
}

type stubAttacher struct{}

func (stubAttacher) Attach(_ context.Context, doc []byte, _, _ string, _ []byte) ([]byte, error) {
	return doc, nil
}

type memRepo struct {
	mu   sync.Mutex
	rows []*entity.ArchivedInvoice
}

func (r *memRepo) Create(_ context.Context, a *entity.ArchivedInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == a.UserID && row.InvoiceNumber == a.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.rows = append(r.rows, a)
	return nil
}

func (r *memRepo) ListByUser(_ context.Context, userID string) ([]*entity.ArchivedInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ArchivedInvoice
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, userID, id string) (*entity.ArchivedInvoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id && row.UserID == userID {
			return row, nil
		}
	}
	return nil, nil
}

type memStore struct{ files map[string][]byte }

func (s *memStore) Save(_ context.Context, key string, r io.Reader, limit int64) (int64, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return 0, err
	}
	if int64(len(b)) > limit {
		return 0, invoicing.ErrTooLarge
	}
	if _, ok := s.files[key]; ok {
		return 0, invoicing.ErrAlreadyUploaded
	}
	s.files[key] = b
	return int64(len(b)), nil
}

// ── App ─────────────────────────────────────────────────────────────────────

const sampleJSON = `{
  "sender": {"name": "Muster GmbH", "street": "Hauptstraße 1", "zip": "10115", "city": "Berlin",
             "taxId": "12/345/67890", "iban": "DE02120300000000202051"},
  "recipient": {"name": "Kunde AG", "street": "Nebenweg 2", "zip": "80331", "city": "München"},
  "metadata": {"invoiceNumber": "RE-7", "date": "2024-03-15", "paymentTerms": "net14"},
  "items": [{"description": "Beratung", "quantity": 2, "unit": "Stunden", "price": 100, "taxRate": 19}]
}`

type testApp struct {
	app   *fiber.App
	repo  *memRepo
	store *memStore
}

func newTestApp(t *testing.T, withArchive bool) testApp {
	t.Helper()
	log := zerolog.Nop()
	gen := invoicing.NewGenerateUseCase(
		xrechnung.NewCIIBuilder(), xrechnung.NewUBLBuilder(), stubRenderer{}, stubAttacher{},
		invoicing.Defaults{Template: "classic"}, log,
	)
	repo := &memRepo{}
	store := &memStore{files: map[string][]byte{}}
	var archive *invoicing.ArchiveUseCase
	if withArchive {
		archive = invoicing.NewArchiveUseCase(repo, gen, invoicing.LinkConfig{
			Secret: testJWTSecret, Issuer: testIssuer, BaseURL: "http://localhost:8080", TTL: time.Minute,
		}, log)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("geheim123"), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Generate: gen,
		Import:   invoicing.NewImportUseCase(xrechnung.NewParser(), log),
		Archive:  archive,
		Upload: invoicing.NewUploadUseCase(invoicing.UploadConfig{
			Secret: testJWTSecret, Issuer: testIssuer, BaseURL: "http://localhost:8080",
			TTL: time.Minute, MaxBytes: 1024,
		}, store, log),
		AuthUC: auth.NewAuthUseCase(
			auth.Account{User: testUserID, PasswordHash: string(hash)},
			auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		),
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return testApp{app: app, repo: repo, store: store}
}

func (a testApp) do(t *testing.T, method, target, body, authHeader string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// ── Public routes ───────────────────────────────────────────────────────────

func TestDraft(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodGet, "/api/invoices/draft", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var inv invoice.Invoice
	decode(t, resp, &inv)
	assert.Equal(t, invoice.PaymentNet30, inv.Metadata.PaymentTerms)
	assert.Len(t, inv.Items, 1)
	assert.NotEmpty(t, inv.Metadata.InvoiceNumber)
}

func TestTotals_LegacyPriceField(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodPost, "/api/invoices/totals", sampleJSON, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Rounded struct {
			Subtotal  string `json:"subtotal"`
			TaxAmount string `json:"taxAmount"`
			Total     string `json:"total"`
		} `json:"rounded"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "200", out.Rounded.Subtotal)
	assert.Equal(t, "38", out.Rounded.TaxAmount)
	assert.Equal(t, "238", out.Rounded.Total)
}

func TestValidate_Step(t *testing.T) {
	a := newTestApp(t, false)

	resp := a.do(t, http.MethodPost, "/api/invoices/validate?step=2", `{"recipient": {"name": "Kunde AG"}}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res invoice.Result
	decode(t, resp, &res)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)

	resp = a.do(t, http.MethodPost, "/api/invoices/validate?step=9", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestValidate_Complete(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodPost, "/api/invoices/validate", sampleJSON, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res invoice.Result
	decode(t, resp, &res)
	assert.True(t, res.Valid, res.Errors)
}

func TestGenerate_CII(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodPost, "/api/invoices/generate?format=CII", sampleJSON, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, invoicing.MimeXML, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "XRechnung_RE-7_CII.xml")
	assert.Equal(t, "238.00", resp.Header.Get("X-Invoice-Total"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "<ram:ID>RE-7</ram:ID>")
}

func TestGenerate_ValidationError(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodPost, "/api/invoices/generate", `{"items": []}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var e struct {
		Code   string   `json:"code"`
		Errors []string `json:"errors"`
	}
	decode(t, resp, &e)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Errors, "Mindestens eine Position ist erforderlich")
}

func TestGenerate_UnknownFormatAndTemplate(t *testing.T) {
	a := newTestApp(t, false)

	resp := a.do(t, http.MethodPost, "/api/invoices/generate?format=DOCX", sampleJSON, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNSUPPORTED_FORMAT", errorCode(t, resp))
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, "/api/invoices/generate?format=PDF&template=modern", sampleJSON, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_TEMPLATE", errorCode(t, resp))
	resp.Body.Close()
}

func TestGenerate_InvalidJSON(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodPost, "/api/invoices/generate", `{not json`, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

func TestParse_RoundTrip(t *testing.T) {
	a := newTestApp(t, false)
	gen := a.do(t, http.MethodPost, "/api/invoices/generate?format=UBL", sampleJSON, "")
	xml, err := io.ReadAll(gen.Body)
	gen.Body.Close()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/parse", bytes.NewReader(xml))
	req.Header.Set("Content-Type", "application/xml")
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Syntax     string          `json:"syntax"`
		Consistent bool            `json:"consistent"`
		Invoice    invoice.Invoice `json:"invoice"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "UBL", out.Syntax)
	assert.True(t, out.Consistent)
	assert.Equal(t, "RE-7", out.Invoice.Metadata.InvoiceNumber)
}

func TestParse_Malformed(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodPost, "/api/invoices/parse", "<Invoice", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "PARSE_ERROR", errorCode(t, resp))
}

func TestValidateXML(t *testing.T) {
	resp := newTestApp(t, false).do(t, http.MethodPost, "/api/invoices/validate-xml", "<foo/>", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res xrechnung.StructureResult
	decode(t, resp, &res)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}

// ── Auth and archive ────────────────────────────────────────────────────────

func login(t *testing.T, a testApp) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/token", `{"user":"buero","password":"geheim123"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out auth.TokenResponse
	decode(t, resp, &out)
	return "Bearer " + out.Token
}

func TestAuthToken_WrongPassword(t *testing.T) {
	resp := newTestApp(t, true).do(t, http.MethodPost, "/api/auth/token", `{"user":"buero","password":"nein"}`, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestArchive_RequiresToken(t *testing.T) {
	resp := newTestApp(t, true).do(t, http.MethodGet, "/api/invoices", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestArchive_DisabledWithoutDatabase(t *testing.T) {
	a := newTestApp(t, false)

	resp := a.do(t, http.MethodGet, "/api/invoices", "", login(t, a))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "MODULE_DISABLED", errorCode(t, resp))
}

func TestArchive_Flow(t *testing.T) {
	a := newTestApp(t, true)
	tok := login(t, a)

	resp := a.do(t, http.MethodPost, "/api/invoices?format=UBL", sampleJSON, tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Success   bool   `json:"success"`
		InvoiceID string `json:"invoiceId"`
	}
	decode(t, resp, &created)
	assert.True(t, created.Success)
	require.NotEmpty(t, created.InvoiceID)

	resp = a.do(t, http.MethodPost, "/api/invoices", sampleJSON, tok)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/invoices", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Total    int `json:"total"`
		Invoices []struct {
			ID            string `json:"id"`
			InvoiceNumber string `json:"invoiceNumber"`
			Format        string `json:"format"`
		} `json:"invoices"`
	}
	decode(t, resp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "UBL", list.Invoices[0].Format)

	resp = a.do(t, http.MethodGet, "/api/invoices/"+created.InvoiceID, "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		InvoiceNumber string          `json:"invoiceNumber"`
		Invoice       invoice.Invoice `json:"invoice"`
	}
	decode(t, resp, &detail)
	assert.Equal(t, "RE-7", detail.InvoiceNumber)
	assert.Equal(t, "Kunde AG", detail.Invoice.Recipient.Name)

	resp = a.do(t, http.MethodGet, "/api/invoices/"+created.InvoiceID+"/download?format=xml", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "XRechnung_RE-7_UBL.xml")
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/invoices/"+created.InvoiceID+"/download?format=pdf", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, invoicing.MimePDF, resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/invoices/unknown-id", "", tok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpload_Flow(t *testing.T) {
	a := newTestApp(t, false)
	tok := login(t, a)

	resp := a.do(t, http.MethodPost, "/api/invoices/upload-url", `{"fileName":"beleg.pdf","mimeType":"application/pdf"}`, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u invoicing.UploadURL
	decode(t, resp, &u)
	require.True(t, strings.HasPrefix(u.URL, "http://localhost:8080/api/uploads/"), u.URL)

	req := httptest.NewRequest(http.MethodPut, strings.TrimPrefix(u.URL, "http://localhost:8080"), strings.NewReader("%PDF-1.7"))
	req.Header.Set("Content-Type", "application/pdf")
	put, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer put.Body.Close()

	assert.Equal(t, http.StatusCreated, put.StatusCode)
	assert.Equal(t, []byte("%PDF-1.7"), a.store.files[u.Key])
}

func putUpload(t *testing.T, a testApp, url, contentType, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, strings.TrimPrefix(url, "http://localhost:8080"), strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadURL_FileTypeAlias(t *testing.T) {
	a := newTestApp(t, false)
	tok := login(t, a)

	resp := a.do(t, http.MethodPost, "/api/invoices/upload-url", `{"fileName":"rechnung.xml","fileType":"application/xml"}`, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u invoicing.UploadURL
	decode(t, resp, &u)
	assert.True(t, strings.HasSuffix(u.Key, ".xml"), u.Key)

	put := putUpload(t, a, u.URL, "application/xml", "<a/>")
	defer put.Body.Close()
	assert.Equal(t, http.StatusCreated, put.StatusCode)
}

func TestUploadURL_MissingType(t *testing.T) {
	a := newTestApp(t, false)
	tok := login(t, a)

	resp := a.do(t, http.MethodPost, "/api/invoices/upload-url", `{"fileName":"rechnung.xml"}`, tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_ReplayRejected(t *testing.T) {
	a := newTestApp(t, false)
	tok := login(t, a)
	resp := a.do(t, http.MethodPost, "/api/invoices/upload-url", `{"fileName":"beleg.pdf","mimeType":"application/pdf"}`, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u invoicing.UploadURL
	decode(t, resp, &u)

	first := putUpload(t, a, u.URL, "application/pdf", "%PDF-1.7")
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	replay := putUpload(t, a, u.URL, "application/pdf", "%PDF-evil")
	defer replay.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, replay.StatusCode)
	assert.Equal(t, []byte("%PDF-1.7"), a.store.files[u.Key])
}

func TestArchive_DownloadURL(t *testing.T) {
	a := newTestApp(t, true)
	tok := login(t, a)
	resp := a.do(t, http.MethodPost, "/api/invoices", sampleJSON, tok)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		InvoiceID string `json:"invoiceId"`
	}
	decode(t, resp, &created)

	resp = a.do(t, http.MethodGet, "/api/invoices/"+created.InvoiceID+"/download-url?format=xml", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var link struct {
		URL       string    `json:"url"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	decode(t, resp, &link)
	require.True(t, strings.HasPrefix(link.URL, "http://localhost:8080/api/downloads/"), link.URL)

	// The link works without a bearer token.
	resp = a.do(t, http.MethodGet, strings.TrimPrefix(link.URL, "http://localhost:8080"), "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "XRechnung_RE-7_CII.xml")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "rsm:CrossIndustryInvoice")
}

func TestArchive_DownloadURL_Errors(t *testing.T) {
	a := newTestApp(t, true)
	tok := login(t, a)

	resp := a.do(t, http.MethodGet, "/api/invoices/unknown-id/download-url", "", tok)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/invoices/unknown-id/download-url", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/api/downloads/garbage", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// An access token is not a download token.
	resp = a.do(t, http.MethodGet, "/api/downloads/"+strings.TrimPrefix(tok, "Bearer "), "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestUpload_InvalidToken(t *testing.T) {
	a := newTestApp(t, false)
	req := httptest.NewRequest(http.MethodPut, "/api/uploads/garbage", strings.NewReader("x"))
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
