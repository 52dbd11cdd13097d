package routes

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/handlers"
	"BidVault/internal/middleware"
)

func SetupProjectRoutes(app *fiber.App) {
	projects := app.Group("/api/projects", middleware.Protected())

	// List a project (creates its pending bonus pool)
	projects.Post("/", handlers.CreateProject)

	// Get all my projects
	projects.Get("/my-projects", handlers.GetMyProjects)

	// Get specific project with bids
	projects.Get("/:id", handlers.GetProject)

	// Bidding
	projects.Post("/:id/bids", handlers.PlaceBid)
	projects.Get("/:id/bids", handlers.GetProjectBids)

	// Bonus pool funding
	projects.Post("/:id/bonus-pool/fund", handlers.FundBonusPool)
	projects.Post("/:id/bonus-pool/capture", handlers.CaptureBonusPayment)
	projects.Get("/:id/bonus-pool", handlers.GetBonusPool)

	// Bidder's own bids
	bids := app.Group("/api/bids", middleware.Protected())
	bids.Get("/my-bids", handlers.GetMyBids)
}
