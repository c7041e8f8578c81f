package routes

import (
	"time"

	"github.com/castlinked/castlinked-backend/internal/config"
	"github.com/castlinked/castlinked-backend/internal/handlers"
	"github.com/castlinked/castlinked-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminReportHandler,
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

	// Auth is public, with a stricter limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Report cases, any authenticated user
	reports := api.Group("/reports", middleware.JWTProtected(cfg))
	reports.Post("/", reportHandler.FileReport)
	reports.Get("/me", reportHandler.ListMine)
	reports.Get("/against-me", reportHandler.ListAgainstMe)
	reports.Get("/stats/overview", reportHandler.StatsOverview)
	reports.Get("/target/:id", reportHandler.ListAgainstUser)
	reports.Get("/:id", reportHandler.GetByID)
	reports.Post("/:id/message", reportHandler.PostMessage)

	// Admin case console
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/reports", adminHandler.List)
	admin.Get("/reports/:id", adminHandler.Get)
	admin.Patch("/reports/:id/status", adminHandler.SetStatus)
	admin.Patch("/reports/:id/priority", adminHandler.SetPriority)
	admin.Post("/reports/:id/notes", adminHandler.AddNote)
	admin.Post("/reports/:id/resolve", adminHandler.Resolve)
	admin.Post("/reports/:id/message", adminHandler.PostMessage)
}
