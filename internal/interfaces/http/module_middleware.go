package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DennisBaerXY/kostenlose-erechnung/internal/application/dto"
)

// RequireModule answers 503 for every route behind it when the named module
// is not available in this deployment, e.g. the archive without a database.
//
// Behaviour:
//   - 503 Service Unavailable → module not configured.
//   - otherwise the request passes unchanged.
func RequireModule(moduleName string, available bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !available {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "Das Modul '" + moduleName + "' ist in dieser Installation nicht aktiviert.",
			})
		}
		return c.Next()
	}
}
