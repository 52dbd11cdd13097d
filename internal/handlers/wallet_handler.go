package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"BidVault/internal/database"
	"BidVault/internal/models"
	"BidVault/internal/services"
)

type AddBankAccountRequest struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,min=6"`
	AccountName   string `json:"account_name" validate:"required"`
	IFSCCode      string `json:"ifsc_code" validate:"required,min=4"`
}

type WithdrawRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	BankAccountID uint    `json:"bank_account_id" validate:"required"`
}

// GetWalletBalance returns the user's available and pending balances
func GetWalletBalance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	svc := services.NewWithdrawalService()
	user, err := svc.GetBalance(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"balance":         user.Balance,
		"pending_balance": user.PendingBalance,
	})
}

// AddBankAccount registers a bank account for payouts. The first account
// becomes the default automatically.
func AddBankAccount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	req := new(AddBankAccountRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var count int64
	database.DB.Model(&models.BankAccount{}).Where("user_id = ?", userID).Count(&count)

	account := models.BankAccount{
		UserID:        userID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		IFSCCode:      req.IFSCCode,
		IsDefault:     count == 0,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add bank account",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Bank account added",
		"bank_account": account,
	})
}

// GetBankAccounts lists the user's bank accounts
func GetBankAccounts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var accounts []models.BankAccount
	if err := database.DB.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").Find(&accounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve bank accounts",
		})
	}

	return c.JSON(fiber.Map{
		"bank_accounts": accounts,
		"count":         len(accounts),
	})
}

// SetDefaultBankAccount marks one account as the payout default
func SetDefaultBankAccount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	accountID := c.Params("id")

	var account models.BankAccount
	if err := database.DB.Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error; err != nil {
		return serviceError(c, err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BankAccount{}).Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&account).Update("is_default", true).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update default account",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Default bank account updated",
	})
}

// DeleteBankAccount removes a bank account
func DeleteBankAccount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	accountID := c.Params("id")

	var account models.BankAccount
	if err := database.DB.Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error; err != nil {
		return serviceError(c, err)
	}

	if err := database.DB.Delete(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete bank account",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Bank account deleted",
	})
}

// RequestWithdrawal starts a withdrawal from the available balance
func RequestWithdrawal(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	req := new(WithdrawRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	svc := services.NewWithdrawalService()
	withdrawal, err := svc.RequestWithdrawal(userID, req.Amount, req.BankAccountID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Withdrawal requested",
		"withdrawal": withdrawal,
	})
}

// GetWithdrawals lists the user's withdrawal requests
func GetWithdrawals(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	svc := services.NewWithdrawalService()
	withdrawals, err := svc.GetWithdrawals(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"withdrawals": withdrawals,
		"count":       len(withdrawals),
	})
}

// GetTransactionHistory lists the user's ledger entries, newest first
func GetTransactionHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var transactions []models.Transaction
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(100).Find(&transactions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve transactions",
		})
	}

	return c.JSON(fiber.Map{
		"transactions": transactions,
		"count":        len(transactions),
	})
}
