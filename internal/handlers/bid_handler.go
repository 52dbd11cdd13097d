package handlers

import (
	"github.com/gofiber/fiber/v2"

	"BidVault/internal/database"
	"BidVault/internal/models"
)

type PlaceBidRequest struct {
	Amount          float64  `json:"amount" validate:"required,gt=0"`
	YearsExperience int      `json:"years_experience" validate:"gte=0"`
	HoursPerWeek    int      `json:"hours_per_week" validate:"gte=0,lte=168"`
	Skills          []string `json:"skills"`
	Proposal        string   `json:"proposal"`
}

// PlaceBid submits a bid on a project. One bid per (project, bidder).
func PlaceBid(c *fiber.Ctx) error {
	projectID := c.Params("id")
	bidderID := c.Locals("user_id").(uint)

	req := new(PlaceBidRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return serviceError(c, err)
	}

	if project.OwnerID == bidderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot bid on your own project",
		})
	}
	if project.Status != models.ProjectOpen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Project is not open for bids",
		})
	}

	var existing models.Bid
	if err := database.DB.Where("project_id = ? AND bidder_id = ?", project.ID, bidderID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You have already bid on this project",
		})
	}

	bid := models.Bid{
		ProjectID:       project.ID,
		BidderID:        bidderID,
		Amount:          req.Amount,
		YearsExperience: req.YearsExperience,
		HoursPerWeek:    req.HoursPerWeek,
		Proposal:        req.Proposal,
		Status:          models.BidPending,
		PaymentStatus:   models.BidPaymentNone,
	}
	if err := bid.SetSkillList(req.Skills); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid skills list",
		})
	}

	if err := database.DB.Create(&bid).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to place bid",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bid placed successfully",
		"bid":     bid,
	})
}

// GetProjectBids lists the bids on a project (owner only)
func GetProjectBids(c *fiber.Ctx) error {
	projectID := c.Params("id")
	userID := c.Locals("user_id").(uint)

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return serviceError(c, err)
	}
	if project.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner can view bids",
		})
	}

	var bids []models.Bid
	if err := database.DB.Preload("Bidder").Where("project_id = ?", project.ID).
		Order("created_at ASC").Find(&bids).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve bids",
		})
	}

	return c.JSON(fiber.Map{
		"bids":  bids,
		"count": len(bids),
	})
}

// GetMyBids lists the authenticated user's bids
func GetMyBids(c *fiber.Ctx) error {
	bidderID := c.Locals("user_id").(uint)

	var bids []models.Bid
	if err := database.DB.Preload("Project").Where("bidder_id = ?", bidderID).
		Order("created_at DESC").Find(&bids).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve bids",
		})
	}

	return c.JSON(fiber.Map{
		"bids":  bids,
		"count": len(bids),
	})
}
