package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/dto"
	"github.com/DennisBaerXY/kostenlose-erechnung/pkg/jwt"
)

// LocalUserID is the fiber Locals key holding the authenticated user.
const LocalUserID = "user_id"

// AuthMiddleware validates the Bearer JWT and stores the user ID in c.Locals.
// Upload tokens are not accepted here.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization-Header erforderlich"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "leeres Token"})
		}
		userID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Token ungültig oder abgelaufen"})
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetUserID returns the user set by AuthMiddleware, or "".
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
