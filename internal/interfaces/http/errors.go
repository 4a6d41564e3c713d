package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/dto"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/invoicing"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain/invoice"
)

func errorJSON(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// respondError maps use case errors to HTTP responses. Anything unknown is
// logged and answered with 500.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		ve *invoice.ValidationError
		pe *invoice.ParseError
		ge *invoice.GenerationError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "Die Rechnungsdaten sind unvollständig oder fehlerhaft.",
			Errors:  ve.Messages,
		})
	case errors.As(err, &pe):
		return errorJSON(c, fiber.StatusBadRequest, "PARSE_ERROR", pe.Message)
	case errors.Is(err, invoice.ErrUnknownFormat):
		return errorJSON(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "Unbekanntes Ausgabeformat.")
	case errors.Is(err, invoice.ErrUnknownTemplate):
		return errorJSON(c, fiber.StatusBadRequest, "UNKNOWN_TEMPLATE", "Unbekannte PDF-Vorlage.")
	case errors.As(err, &ge):
		return errorJSON(c, fiber.StatusBadRequest, "GENERATION", "Das Dokument konnte nicht erzeugt werden.")
	case errors.Is(err, invoice.ErrInvalidInvoice):
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Ungültiger Anfrageinhalt.")
	case errors.Is(err, invoicing.ErrTooLarge):
		return errorJSON(c, fiber.StatusRequestEntityTooLarge, "TOO_LARGE", "Die Datei ist zu groß.")
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", "Ungültige Eingabe.")
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", "Rechnung nicht gefunden.")
	case errors.Is(err, domain.ErrDuplicate):
		return errorJSON(c, fiber.StatusConflict, "DUPLICATE", "Diese Rechnungsnummer wurde bereits gespeichert.")
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Nicht autorisiert.")
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, "FORBIDDEN", "Zugriff verweigert.")
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
	return errorJSON(c, fiber.StatusInternalServerError, "INTERNAL", "Interner Fehler. Bitte später erneut versuchen.")
}
