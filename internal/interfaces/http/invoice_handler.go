package http

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/dto"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/infrastructure/xrechnung"
)

// InvoiceHandler serves the invoice routes. The public ones work without any
// storage; archive routes need an ArchiveUseCase.
type InvoiceHandler struct {
	generate *invoicing.GenerateUseCase
	imports  *invoicing.ImportUseCase
	archive  *invoicing.ArchiveUseCase
	uploads  *invoicing.UploadUseCase
	log      zerolog.Logger
	now      func() time.Time
}

// NewInvoiceHandler builds the handler. archive may be nil.
func NewInvoiceHandler(
	generate *invoicing.GenerateUseCase,
	imports *invoicing.ImportUseCase,
	archive *invoicing.ArchiveUseCase,
	uploads *invoicing.UploadUseCase,
	log zerolog.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		generate: generate,
		imports:  imports,
		archive:  archive,
		uploads:  uploads,
		log:      log,
		now:      time.Now,
	}
}

// readInvoice decodes the request body, accepting the legacy field names too.
func readInvoice(c *fiber.Ctx) (*invoice.Invoice, error) {
	return invoice.DecodeJSON(c.Body())
}

func sendDocument(c *fiber.Ctx, doc *invoicing.Document) error {
	c.Attachment(doc.Filename)
	c.Set(fiber.HeaderContentType, doc.MimeType)
	return c.Send(doc.Content)
}

// ── Public ──────────────────────────────────────────────────────────────────

// Draft godoc
// @Summary      Neuer Rechnungsentwurf
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  invoice.Invoice
// @Router       /api/invoices/draft [get]
func (h *InvoiceHandler) Draft(c *fiber.Ctx) error {
	return c.JSON(invoice.NewDraft(h.now()))
}

// Totals godoc
// @Summary      Summen berechnen
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  invoice.Invoice  true  "Rechnung"
// @Success      200   {object}  dto.TotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/totals [post]
func (h *InvoiceHandler) Totals(c *fiber.Ctx) error {
	inv, err := readInvoice(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	totals := inv.Totals()
	return c.JSON(dto.TotalsResponse{Totals: totals, Rounded: totals.Rounded()})
}

// Validate godoc
// @Summary      Rechnung prüfen
// @Description  Ohne step werden alle Prüfungen ausgeführt; step 1..4 prüft nur einen Schritt.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        step  query  int              false  "Schritt (1-5)"
// @Param        body  body   invoice.Invoice  true   "Rechnung"
// @Success      200   {object}  invoice.Result
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/validate [post]
func (h *InvoiceHandler) Validate(c *fiber.Ctx) error {
	step := invoice.StepComplete
	if s := c.Query("step"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < int(invoice.StepSender) || n > int(invoice.StepComplete) {
			return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", "step muss zwischen 1 und 5 liegen.")
		}
		step = invoice.Step(n)
	}
	inv, err := readInvoice(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(invoice.ValidateStep(step, inv))
}

// Generate godoc
// @Summary      Rechnungsdokument erzeugen
// @Tags         invoices
// @Accept       json
// @Produce      application/xml,application/pdf,application/zip
// @Param        format    query  string           false  "CII, UBL, ZUGFeRD, PDF oder ZIP"
// @Param        template  query  string           false  "PDF-Vorlage"
// @Param        body      body   invoice.Invoice  true   "Rechnung"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/invoices/generate [post]
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	inv, err := readInvoice(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	doc, err := h.generate.Generate(c.UserContext(), inv, c.Query("format"), c.Query("template"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set("X-Invoice-Total", doc.Totals.Rounded().Total.StringFixed(2))
	return sendDocument(c, doc)
}

// Parse godoc
// @Summary      XRechnung einlesen
// @Description  Nimmt CII- oder UBL-XML als Body oder als Formularfeld "file" entgegen.
// @Tags         invoices
// @Accept       xml,mpfd
// @Produce      json
// @Success      200  {object}  invoicing.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices/parse [post]
func (h *InvoiceHandler) Parse(c *fiber.Ctx) error {
	data, err := readXML(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Datei konnte nicht gelesen werden.")
	}
	if len(data) == 0 {
		return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", "Keine XML-Datei übermittelt.")
	}
	res, err := h.imports.Import(c.UserContext(), data)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(res)
}

// ValidateXML godoc
// @Summary      XML-Struktur prüfen
// @Tags         invoices
// @Accept       xml,mpfd
// @Produce      json
// @Success      200  {object}  xrechnung.StructureResult
// @Router       /api/invoices/validate-xml [post]
func (h *InvoiceHandler) ValidateXML(c *fiber.Ctx) error {
	data, err := readXML(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Datei konnte nicht gelesen werden.")
	}
	return c.JSON(xrechnung.ValidateStructure(data))
}

func readXML(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return append([]byte(nil), c.Body()...), nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ── Archive (protected) ─────────────────────────────────────────────────────

// Create godoc
// @Summary      Rechnung archivieren
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        format  query  string           false  "CII (Standard) oder UBL"
// @Param        body    body   invoice.Invoice  true   "Rechnung"
// @Success      201  {object}  dto.CreateInvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	inv, err := readInvoice(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	rec, err := h.archive.Create(c.UserContext(), userID, inv, c.Query("format"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateInvoiceResponse{
		Success:   true,
		InvoiceID: rec.ID,
		Digest:    rec.Digest,
	})
}

// List godoc
// @Summary      Archivierte Rechnungen
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.archive.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ToInvoiceListResponse(list))
}

// GetByID godoc
// @Summary      Archivierte Rechnung
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Rechnungs-ID"
// @Success      200  {object}  dto.ArchivedInvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.archive.Get(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.ToArchivedInvoiceResponse(rec, true))
}

// Download godoc
// @Summary      Archivierte Rechnung herunterladen
// @Tags         invoices
// @Produce      application/xml,application/pdf
// @Security     BearerAuth
// @Param        id      path   string  true   "Rechnungs-ID"
// @Param        format  query  string  false  "xml (Standard) oder pdf"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/download [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	doc, err := h.archive.Download(c.UserContext(), GetUserID(c), c.Params("id"), c.Query("format"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendDocument(c, doc)
}

// DownloadURL godoc
// @Summary      Download-Link anfordern
// @Description  Signierter, befristeter Link, der ohne Bearer-Token abrufbar ist.
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "Rechnungs-ID"
// @Param        format  query  string  false  "xml (Standard) oder pdf"
// @Success      200  {object}  invoicing.DownloadURL
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/download-url [get]
func (h *InvoiceHandler) DownloadURL(c *fiber.Ctx) error {
	out, err := h.archive.DownloadURL(c.UserContext(), GetUserID(c), c.Params("id"), c.Query("format"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DownloadByToken godoc
// @Summary      Download über signierten Link
// @Tags         invoices
// @Produce      application/xml,application/pdf
// @Param        token  path  string  true  "Download-Token"
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/downloads/{token} [get]
func (h *InvoiceHandler) DownloadByToken(c *fiber.Ctx) error {
	doc, err := h.archive.DownloadByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendDocument(c, doc)
}

// UploadURL godoc
// @Summary      Upload-URL anfordern
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UploadURLRequest  true  "fileName, mimeType (oder fileType)"
// @Success      200   {object}  invoicing.UploadURL
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/upload-url [post]
func (h *InvoiceHandler) UploadURL(c *fiber.Ctx) error {
	var in dto.UploadURLRequest
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Ungültiger Anfrageinhalt.")
	}
	out, err := h.uploads.IssueURL(c.UserContext(), GetUserID(c), in.FileName, in.ContentType())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
