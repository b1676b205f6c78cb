package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxlc/fluxlc/internal/logging"
	"github.com/fluxlc/fluxlc/internal/models"
)

// ErrorHandler returns the app-level error handler. It catches errors that
// escape the handlers, including panics surfaced by the recover middleware.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ERROR",
				Message: message,
			},
		})
	}
}
