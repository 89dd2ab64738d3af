package handlers

import (
	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/middleware"
	"github.com/dermascan/dermascan-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ImageHandler struct {
	ingestionService *services.IngestionService
	retrievalService *services.RetrievalService
}

func NewImageHandler(ingestionService *services.IngestionService, retrievalService *services.RetrievalService) *ImageHandler {
	return &ImageHandler{ingestionService: ingestionService, retrievalService: retrievalService}
}

// Upload ingests a multipart image. Analysis failure does not fail the
// request; the response carries processingError instead.
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apperr.Wrap(apperr.Validation, "Please upload an image", err)
	}

	resp, err := h.ingestionService.Ingest(c.UserContext(), userID, file)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ImageHandler) MyImages(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return err
	}

	records, err := h.retrievalService.GetByOwner(userID, c.BaseURL())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (h *ImageHandler) GetByID(c *fiber.Ctx) error {
	imageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid image ID", err)
	}

	record, err := h.retrievalService.GetByID(imageID, c.BaseURL())
	if err != nil {
		return err
	}
	return c.JSON(record)
}
