package routes

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/handlers"
	"BidVault/internal/middleware"
)

func SetupRoutes(app *fiber.App) {
	// API routes
	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", handlers.Signup)
	auth.Post("/login", handlers.Login)

	// Profile
	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/", handlers.GetProfile)
	profile.Put("/", handlers.UpdateProfile)

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "BidVault API v1.0",
			"status":  "running",
		})
	})
}
