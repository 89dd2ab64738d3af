package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	pingDB func() error
}

func NewHealthHandler(pingDB func() error) *HealthHandler {
	return &HealthHandler{pingDB: pingDB}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	db := "ok"
	if err := h.pingDB(); err != nil {
		db = "down"
	}
	return c.JSON(fiber.Map{
		"status":    "ok",
		"db":        db,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
