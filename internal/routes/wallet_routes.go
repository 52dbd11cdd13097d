package routes

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/handlers"
	"BidVault/internal/middleware"
)

func SetupWalletRoutes(app *fiber.App) {
	wallet := app.Group("/api/wallet", middleware.Protected())

	// Balance
	wallet.Get("/balance", handlers.GetWalletBalance)

	// Bank accounts
	wallet.Post("/bank-accounts", handlers.AddBankAccount)
	wallet.Get("/bank-accounts", handlers.GetBankAccounts)
	wallet.Put("/bank-accounts/:id/default", handlers.SetDefaultBankAccount)
	wallet.Delete("/bank-accounts/:id", handlers.DeleteBankAccount)

	// Withdrawals
	wallet.Post("/withdraw", handlers.RequestWithdrawal)
	wallet.Get("/withdrawals", handlers.GetWithdrawals)

	// Transaction history
	wallet.Get("/transactions", handlers.GetTransactionHistory)
}
