package handlers

import (
	"errors"
	"log/slog"

	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps apperr kinds to HTTP statuses in one place. Server
// errors are logged but never expose their details to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var appErr *apperr.Error
	var fiberErr *fiber.Error
	if errors.As(err, &appErr) {
		code = appErr.Status()
		message = appErr.Message
	} else if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
