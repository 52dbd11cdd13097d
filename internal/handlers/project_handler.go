package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"BidVault/internal/database"
	"BidVault/internal/models"
	"BidVault/internal/services"
)

var razorpayService *services.RazorpayService

func InitPayoutService() {
	razorpayService = services.NewRazorpayService()
	log.Println("Razorpay service initialized")
}

type CreateProjectRequest struct {
	Title                string  `json:"title" validate:"required,min=3"`
	Description          string  `json:"description"`
	Category             string  `json:"category" validate:"omitempty,oneof=free paid"`
	StartingBid          float64 `json:"starting_bid" validate:"required,gt=0"`
	RequiredContributors int     `json:"required_contributors" validate:"required,gte=1"`
	BonusPerContributor  float64 `json:"bonus_per_contributor" validate:"gte=0"`
}

type CapturePaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
}

// CreateProject lists a project and creates its bonus pool in pending state
func CreateProject(c *fiber.Ctx) error {
	req := new(CreateProjectRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ownerID := c.Locals("user_id").(uint)

	category := models.ProjectCategory(req.Category)
	if category == "" {
		category = models.ProjectCategoryFree
	}

	var project models.Project
	var pool models.BonusPool

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		project = models.Project{
			OwnerID:              ownerID,
			Title:                req.Title,
			Description:          req.Description,
			Category:             category,
			StartingBid:          req.StartingBid,
			RequiredContributors: req.RequiredContributors,
			BonusPerContributor:  req.BonusPerContributor,
			Status:               models.ProjectOpen,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		// The bonus pool is created alongside the listing; it only becomes
		// funded after a successful payment capture.
		pool = models.BonusPool{
			ProjectID:            project.ID,
			OwnerID:              ownerID,
			AmountPerContributor: req.BonusPerContributor,
			ContributorCount:     req.RequiredContributors,
			Status:               models.PoolPending,
		}
		pool.Recompute()
		return tx.Create(&pool).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create project",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Project listed successfully",
		"project":    project,
		"bonus_pool": pool,
	})
}

// GetProject returns one project with its bids
func GetProject(c *fiber.Ctx) error {
	projectID := c.Params("id")

	var project models.Project
	if err := database.DB.Preload("Owner").Preload("Bids").Preload("Bids.Bidder").
		First(&project, projectID).Error; err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"project": project,
	})
}

// GetMyProjects lists the authenticated owner's projects
func GetMyProjects(c *fiber.Ctx) error {
	ownerID := c.Locals("user_id").(uint)

	var projects []models.Project
	if err := database.DB.Where("owner_id = ?", ownerID).
		Order("created_at DESC").Find(&projects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve projects",
		})
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"count":    len(projects),
	})
}

// FundBonusPool creates a payment order for the pool total
func FundBonusPool(c *fiber.Ctx) error {
	projectID := c.Params("id")
	ownerID := c.Locals("user_id").(uint)

	var pool models.BonusPool
	if err := database.DB.Where("project_id = ?", projectID).First(&pool).Error; err != nil {
		return serviceError(c, err)
	}

	if pool.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner can fund the bonus pool",
		})
	}
	if pool.Status == models.PoolFunded {
		return serviceError(c, models.ErrPoolAlreadyFunded)
	}
	if pool.TotalAmount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bonus pool has no amount to fund",
		})
	}

	receipt := fmt.Sprintf("pool-%d", pool.ID)
	order, err := razorpayService.CreateOrder(pool.TotalAmount, receipt, map[string]string{
		"purpose":    "bonus_pool_funding",
		"project_id": projectID,
	})
	if err != nil {
		log.Printf("bonus pool %d: order creation failed: %v", pool.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to create payment order",
		})
	}

	pool.PaymentReference = order.ID
	if err := database.DB.Save(&pool).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record payment order",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment order created. Complete payment to fund the bonus pool.",
		"order": fiber.Map{
			"id":       order.ID,
			"amount":   order.Amount,
			"currency": order.Currency,
			"status":   order.Status,
		},
	})
}

// CaptureBonusPayment verifies the capture with the rail and marks the
// pool funded. Idempotent: an already-funded pool is a state conflict.
func CaptureBonusPayment(c *fiber.Ctx) error {
	projectID := c.Params("id")

	req := new(CapturePaymentRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var pool models.BonusPool
	if err := database.DB.Where("project_id = ?", projectID).First(&pool).Error; err != nil {
		return serviceError(c, err)
	}

	if pool.Status == models.PoolFunded {
		return serviceError(c, models.ErrPoolAlreadyFunded)
	}
	if pool.PaymentReference != req.OrderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order does not match this bonus pool",
		})
	}

	payment, err := razorpayService.FetchPayment(req.PaymentID)
	if err != nil {
		log.Printf("bonus pool %d: payment fetch failed: %v", pool.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to verify payment",
		})
	}
	if payment.Status != "captured" || payment.OrderID != req.OrderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Payment not captured (status: %s)", payment.Status),
		})
	}

	now := time.Now()
	pool.Status = models.PoolFunded
	pool.FundedAt = &now
	if err := database.DB.Save(&pool).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark pool funded",
		})
	}

	txRecord := models.Transaction{
		UserID:      pool.OwnerID,
		ProjectID:   pool.ProjectID,
		Type:        models.TransactionBonusFunding,
		Amount:      pool.TotalAmount,
		Status:      models.TransactionCompleted,
		Reference:   fmt.Sprintf("POOL-%d-%s", pool.ID, req.PaymentID),
		Description: fmt.Sprintf("Bonus pool funded for project %d", pool.ProjectID),
	}
	if err := database.DB.Create(&txRecord).Error; err != nil {
		log.Printf("bonus pool %d: transaction record failed: %v", pool.ID, err)
	}

	notif := services.NewNotificationService()
	if err := notif.NotifyBonusPoolFunded(pool.OwnerID, pool.ProjectID, pool.TotalAmount); err != nil {
		log.Printf("bonus pool %d: funded notification failed: %v", pool.ID, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Bonus pool funded successfully",
		"bonus_pool": pool,
	})
}

// GetBonusPool returns the pool for a project
func GetBonusPool(c *fiber.Ctx) error {
	projectID := c.Params("id")

	var pool models.BonusPool
	if err := database.DB.Where("project_id = ?", projectID).First(&pool).Error; err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"bonus_pool": pool,
	})
}
