package handlers

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/database"
	"BidVault/internal/models"
	"BidVault/internal/services"
)

type FundActionRequest struct {
	UserID uint `json:"user_id" validate:"required"`
	BidID  uint `json:"bid_id" validate:"required"`
}

// CreateEscrowWallet creates the project's escrow wallet once the bonus
// pool is funded and selection is completed. Safe to call repeatedly.
func CreateEscrowWallet(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	svc := services.NewEscrowService()
	wallet, err := svc.CreateWalletIfReady(project.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Escrow wallet ready",
		"wallet":  wallet,
	})
}

// LockEscrowFunds locks one contributor's bid amount plus bonus share
func LockEscrowFunds(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	req := new(FundActionRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	svc := services.NewEscrowService()
	wallet, err := svc.LockFunds(project.ID, req.UserID, req.BidID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Funds locked in escrow",
		"wallet":  wallet,
	})
}

// ReleaseEscrowFund releases a single locked fund to its contributor
func ReleaseEscrowFund(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	req := new(FundActionRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	svc := services.NewEscrowService()
	wallet, err := svc.ReleaseFund(project.ID, req.UserID, req.BidID, models.ReasonManualRelease)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Funds released",
		"wallet":  wallet,
	})
}

// RefundEscrowFund refunds a locked fund back to the project owner
func RefundEscrowFund(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	req := new(FundActionRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	svc := services.NewEscrowService()
	wallet, err := svc.RefundFund(project.ID, req.UserID, req.BidID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Funds refunded",
		"wallet":  wallet,
	})
}

// MoveFundsToBalance credits the caller's released fund to their
// withdrawable balance.
func MoveFundsToBalance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var project models.Project
	if err := database.DB.First(&project, c.Params("id")).Error; err != nil {
		return serviceError(c, err)
	}

	var bid models.Bid
	if err := database.DB.Where("project_id = ? AND bidder_id = ?", project.ID, userID).
		First(&bid).Error; err != nil {
		return serviceError(c, models.ErrFundNotFound)
	}

	svc := services.NewEscrowService()
	wallet, err := svc.MoveToBalance(project.ID, userID, bid.ID)
	if err != nil {
		return serviceError(c, err)
	}

	fund := wallet.FindFund(userID, bid.ID)
	return c.JSON(fiber.Map{
		"message": "Funds moved to your balance",
		"fund":    fund,
	})
}

// CompleteProject marks the project complete and releases all locked funds
func CompleteProject(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	svc := services.NewEscrowService()
	wallet, results, err := svc.CompleteProject(project.ID, project.OwnerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Project completed",
		"wallet":   wallet,
		"releases": results,
	})
}

// GetEscrowWallet returns a project's wallet with funds and audit trail
func GetEscrowWallet(c *fiber.Ctx) error {
	var project models.Project
	if err := database.DB.First(&project, c.Params("id")).Error; err != nil {
		return serviceError(c, err)
	}

	userID := c.Locals("user_id").(uint)
	if project.OwnerID != userID && !isContributor(project.ID, userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not part of this project",
		})
	}

	svc := services.NewEscrowService()
	wallet, err := svc.GetWalletByProject(project.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"wallet": wallet,
	})
}

// GetMyEscrowWallets lists the authenticated owner's wallets
func GetMyEscrowWallets(c *fiber.Ctx) error {
	ownerID := c.Locals("user_id").(uint)

	svc := services.NewEscrowService()
	wallets, err := svc.GetWalletsByOwner(ownerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"wallets": wallets,
		"count":   len(wallets),
	})
}

func isContributor(projectID, userID uint) bool {
	var count int64
	database.DB.Model(&models.LockedFund{}).
		Joins("JOIN escrow_wallets ON escrow_wallets.id = locked_funds.wallet_id").
		Where("escrow_wallets.project_id = ? AND locked_funds.user_id = ?", projectID, userID).
		Count(&count)
	return count > 0
}
