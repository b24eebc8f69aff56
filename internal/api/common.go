package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"rolloutlog.com/internal/domain"
)

// handleError maps a service error to an HTTP response. Server-side failures
// are logged with their cause; the client only ever sees the safe message.
func handleError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= fiber.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Method(), c.Path(), appErr)
		}
		return c.Status(appErr.Code).JSON(fiber.Map{"error": appErr.Message})
	}

	log.Printf("%s %s: unexpected error: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error."})
}
