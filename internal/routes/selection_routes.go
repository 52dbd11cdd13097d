package routes

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/handlers"
	"BidVault/internal/middleware"
)

func SetupSelectionRoutes(app *fiber.App) {
	selection := app.Group("/api/projects/:id/selection", middleware.Protected())

	// Create selection configuration (owner)
	selection.Post("/", handlers.CreateSelectionConfig)

	// Score and rank the pending bids
	selection.Get("/ranked", handlers.GetRankedBidders)

	// Fill remaining slots automatically from the ranking
	selection.Post("/auto", handlers.AutoSelect)

	// Select specific users by hand
	selection.Post("/manual", handlers.ManualSelect)

	// Reconfigure a non-frozen selection
	selection.Put("/", handlers.UpdateSelectionConfig)

	// Cancel selection
	selection.Post("/cancel", handlers.CancelSelection)

	// All my selections
	mine := app.Group("/api/selections", middleware.Protected())
	mine.Get("/my-selections", handlers.GetMySelections)
}
