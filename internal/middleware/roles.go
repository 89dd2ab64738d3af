package middleware

import (
	"github.com/dermascan/dermascan-backend/internal/dto"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RoleRequired allows only the listed roles through. Runs after JWTProtected.
func RoleRequired(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *fiber.Ctx) error {
		role, err := CurrentRole(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Access denied. Insufficient privileges.",
			})
		}
		return c.Next()
	}
}

// ApprovedDoctorRequired gates the patient overview: admins pass, doctors
// pass only once an admin has approved their account. The approval status is
// read from the database, not the token, so a rejection takes effect without
// waiting for token expiry.
func ApprovedDoctorRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := CurrentRole(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if role == models.RoleAdmin {
			return c.Next()
		}
		if role != models.RoleDoctor {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Access denied. Doctor privileges required.",
			})
		}

		userID, err := CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if user.ApprovalStatus != models.ApprovalApproved {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Your doctor account has not been approved yet.",
			})
		}
		return c.Next()
	}
}
