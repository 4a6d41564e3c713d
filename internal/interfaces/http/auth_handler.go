package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/auth"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/dto"
	"github.com/DennisBaerXY/kostenlose-erechnung/internal/domain"
)

// AuthHandler issues access tokens.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Token godoc
// @Summary      Zugangstoken anfordern
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TokenRequest  true  "user, password"
// @Success      200   {object}  auth.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.TokenRequest
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Ungültiger Anfrageinhalt.")
	}
	if in.User == "" || in.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", "Benutzer und Passwort sind erforderlich.")
	}
	out, err := h.uc.Token(c.UserContext(), in.User, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return errorJSON(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Ungültige Zugangsdaten.")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return errorJSON(c, fiber.StatusForbidden, "FORBIDDEN", "Für diese Installation ist kein API-Zugang eingerichtet.")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "INTERNAL", "Token konnte nicht erstellt werden.")
	}
	return c.JSON(out)
}
