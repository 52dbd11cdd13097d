package routes

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/handlers"
	"BidVault/internal/middleware"
)

func SetupEscrowRoutes(app *fiber.App) {
	escrow := app.Group("/api/projects/:id/escrow", middleware.Protected())

	// Create the wallet once the pool is funded and selection completed
	escrow.Post("/", handlers.CreateEscrowWallet)

	// Lock one contributor's funds (owner)
	escrow.Post("/lock", handlers.LockEscrowFunds)

	// Release a locked fund (owner)
	escrow.Post("/release", handlers.ReleaseEscrowFund)

	// Refund a locked fund (owner)
	escrow.Post("/refund", handlers.RefundEscrowFund)

	// Move my released fund to my withdrawable balance (contributor)
	escrow.Post("/move-to-balance", handlers.MoveFundsToBalance)

	// Mark project complete and batch-release all locked funds (owner)
	escrow.Post("/complete", handlers.CompleteProject)

	// Get wallet with funds and audit trail
	escrow.Get("/", handlers.GetEscrowWallet)

	// All my wallets (owner)
	wallets := app.Group("/api/escrow-wallets", middleware.Protected())
	wallets.Get("/my-wallets", handlers.GetMyEscrowWallets)
}
