package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
)

// UploadHandler receives files sent to a signed upload URL.
type UploadHandler struct {
	uc  *invoicing.UploadUseCase
	log zerolog.Logger
}

// NewUploadHandler builds the handler.
func NewUploadHandler(uc *invoicing.UploadUseCase, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{uc: uc, log: log}
}

// Put godoc
// @Summary      Datei hochladen
// @Description  Die URL stammt aus POST /api/invoices/upload-url; das Token in der URL autorisiert den Upload.
// @Tags         uploads
// @Accept       application/pdf,application/xml,image/png,image/jpeg
// @Produce      json
// @Param        token  path  string  true  "Upload-Token"
// @Success      201    {object}  invoicing.StoredFile
// @Failure      401    {object}  dto.ErrorResponse
// @Failure      413    {object}  dto.ErrorResponse
// @Router       /api/uploads/{token} [put]
func (h *UploadHandler) Put(c *fiber.Ctx) error {
	f, err := h.uc.Store(c.UserContext(), c.Params("token"), c.Get(fiber.HeaderContentType), bytes.NewReader(c.Body()))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}
