package routes

import (
	"time"

	"github.com/dermascan/dermascan-backend/internal/config"
	"github.com/dermascan/dermascan-backend/internal/handlers"
	"github.com/dermascan/dermascan-backend/internal/middleware"
	"github.com/dermascan/dermascan-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	userHandler *handlers.UserHandler,
	imageHandler *handlers.ImageHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Uploaded images are publicly served under their stored path.
	app.Static("/"+cfg.UploadDir, cfg.UploadDir)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	users := api.Group("/users")

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	users.Post("/register", authLimiter, userHandler.Register)
	users.Post("/login", authLimiter, userHandler.Login)

	users.Get("/all", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg), userHandler.ListUsers)
	users.Get("/patients", middleware.JWTProtected(cfg), middleware.ApprovedDoctorRequired(db), userHandler.Patients)
	users.Get("/pending-doctors", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg), userHandler.PendingDoctors)
	users.Put("/:id/approval", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg), userHandler.SetApproval)

	images := api.Group("/images", middleware.JWTProtected(cfg),
		middleware.RoleRequired(models.RolePatient, models.RoleDoctor, models.RoleAdmin))
	images.Post("/upload", imageHandler.Upload)
	images.Get("/user/me", imageHandler.MyImages)
	images.Get("/:id", imageHandler.GetByID)
}
