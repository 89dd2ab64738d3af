package handlers

import (
	"github.com/dermascan/dermascan-backend/internal/apperr"
	"github.com/dermascan/dermascan-backend/internal/dto"
	"github.com/dermascan/dermascan-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	authService      *services.AuthService
	retrievalService *services.RetrievalService
}

func NewUserHandler(authService *services.AuthService, retrievalService *services.RetrievalService) *UserHandler {
	return &UserHandler{authService: authService, retrievalService: retrievalService}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid request body", err)
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid request body", err)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers()
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserHandler) Patients(c *fiber.Ctx) error {
	patients, err := h.retrievalService.AllPatientsWithImages(c.BaseURL())
	if err != nil {
		return err
	}
	return c.JSON(patients)
}

func (h *UserHandler) PendingDoctors(c *fiber.Ctx) error {
	doctors, err := h.authService.ListPendingDoctors()
	if err != nil {
		return err
	}
	return c.JSON(doctors)
}

func (h *UserHandler) SetApproval(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid user ID", err)
	}

	var req dto.ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "Invalid request body", err)
	}

	user, err := h.authService.SetApproval(userID, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
