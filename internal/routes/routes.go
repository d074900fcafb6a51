package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/quizarena/backend/internal/config"
	"github.com/quizarena/backend/internal/handlers"
	"github.com/quizarena/backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// Moderation — session-token authenticated inside the handlers; the
	// report path additionally runs through the Redis submission limiter.
	api.Post("/reports", reportHandler.SubmitReport)
	api.Post("/blocks", reportHandler.Block)
	api.Delete("/blocks/:id", reportHandler.Unblock)
	api.Get("/blocks", reportHandler.ListBlocked)

	// Moderation console (JWT + staff role)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/moderation/reports", adminHandler.ListReports)
	admin.Get("/moderation/sanctions", adminHandler.ListSanctions)
	admin.Post("/moderation/sanctions/:id/lift", adminHandler.LiftSanction)
	admin.Put("/moderation/policy", adminHandler.UpdatePolicy)
}
