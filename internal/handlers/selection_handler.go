package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"BidVault/internal/database"
	"BidVault/internal/models"
	"BidVault/internal/services"
)

type CreateSelectionRequest struct {
	Mode                 string               `json:"mode" validate:"omitempty,oneof=manual automatic hybrid"`
	RequiredContributors int                  `json:"required_contributors" validate:"required,gte=1"`
	WeightSkillMatch     float64              `json:"weight_skill_match" validate:"gte=0"`
	WeightBidAmount      float64              `json:"weight_bid_amount" validate:"gte=0"`
	WeightExperience     float64              `json:"weight_experience" validate:"gte=0"`
	WeightAvailability   float64              `json:"weight_availability" validate:"gte=0"`
	MaxBidsToConsider    int                  `json:"max_bids_to_consider" validate:"omitempty,gte=1"`
	RequiredSkills       []RequiredSkillInput `json:"required_skills" validate:"omitempty,dive"`
}

type RequiredSkillInput struct {
	Name     string  `json:"name" validate:"required"`
	Weight   float64 `json:"weight" validate:"gt=0"`
	Required bool    `json:"required"`
	Category string  `json:"category"`
}

type ManualSelectRequest struct {
	UserIDs []uint `json:"user_ids" validate:"required,min=1"`
}

type UpdateSelectionRequest struct {
	Mode               string   `json:"mode" validate:"omitempty,oneof=manual automatic hybrid"`
	WeightSkillMatch   *float64 `json:"weight_skill_match"`
	WeightBidAmount    *float64 `json:"weight_bid_amount"`
	WeightExperience   *float64 `json:"weight_experience"`
	WeightAvailability *float64 `json:"weight_availability"`
	MaxBidsToConsider  *int     `json:"max_bids_to_consider"`
}

// requireProjectOwner loads the project and checks ownership.
func requireProjectOwner(c *fiber.Ctx, projectID string) (*models.Project, error) {
	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return nil, serviceError(c, err)
	}
	userID := c.Locals("user_id").(uint)
	if project.OwnerID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner can manage contributor selection",
		})
	}
	return &project, nil
}

// CreateSelectionConfig creates the selection configuration for a project
func CreateSelectionConfig(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	req := new(CreateSelectionRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	mode := models.SelectionMode(req.Mode)
	if mode == "" {
		mode = models.SelectionManual
	}
	maxBids := req.MaxBidsToConsider
	if maxBids == 0 {
		maxBids = 50
	}

	selection := models.Selection{
		ProjectID:            project.ID,
		OwnerID:              project.OwnerID,
		Mode:                 mode,
		RequiredContributors: req.RequiredContributors,
		WeightSkillMatch:     req.WeightSkillMatch,
		WeightBidAmount:      req.WeightBidAmount,
		WeightExperience:     req.WeightExperience,
		WeightAvailability:   req.WeightAvailability,
		MaxBidsToConsider:    maxBids,
		Status:               models.SelectionPending,
	}

	skills := make([]models.SelectionSkill, 0, len(req.RequiredSkills))
	for _, s := range req.RequiredSkills {
		skills = append(skills, models.SelectionSkill{
			Name:     s.Name,
			Weight:   s.Weight,
			Required: s.Required,
			Category: s.Category,
		})
	}

	svc := services.NewSelectionService()
	if err := svc.CreateSelection(&selection, skills); err != nil {
		return serviceError(c, err)
	}

	// Selection-start notifications are fire-and-forget.
	go notifyBiddersSelectionStarted(project.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Selection configuration created",
		"selection": selection,
	})
}

func notifyBiddersSelectionStarted(projectID uint) {
	var bids []models.Bid
	if err := database.DB.Where("project_id = ?", projectID).Find(&bids).Error; err != nil {
		log.Printf("project %d: failed to load bids for selection notification: %v", projectID, err)
		return
	}
	notif := services.NewNotificationService()
	for _, b := range bids {
		if err := notif.NotifySelectionStarted(b.BidderID, projectID); err != nil {
			log.Printf("project %d: selection-start notification failed for user %d: %v", projectID, b.BidderID, err)
		}
	}
}

// GetRankedBidders scores all pending bids and returns the ranking
func GetRankedBidders(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	svc := services.NewSelectionService()
	ranked, err := svc.RankBidders(project.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"ranked_bidders": ranked,
		"count":          len(ranked),
	})
}

// AutoSelect fills the remaining slots with the top-ranked bidders
func AutoSelect(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	svc := services.NewSelectionService()
	selection, err := svc.AutoSelect(project.ID)
	if err != nil {
		return serviceError(c, err)
	}

	sendSelectionEmails(selection, project)

	return c.JSON(fiber.Map{
		"message":   "Automatic selection completed",
		"selection": selectionWithUsers(selection.ID),
	})
}

// ManualSelect selects the given users for the project
func ManualSelect(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	req := new(ManualSelectRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	svc := services.NewSelectionService()
	selection, err := svc.ManualSelect(project.ID, req.UserIDs)
	if err != nil {
		return serviceError(c, err)
	}

	sendSelectionEmails(selection, project)

	return c.JSON(fiber.Map{
		"message":   "Users selected successfully",
		"selection": selectionWithUsers(selection.ID),
	})
}

// sendSelectionEmails emails newly selected users; failures are logged only.
func sendSelectionEmails(selection *models.Selection, project *models.Project) {
	if emailService == nil {
		return
	}
	var entries []models.SelectedUser
	if err := database.DB.Preload("User").Where("selection_id = ?", selection.ID).Find(&entries).Error; err != nil {
		log.Printf("selection %d: failed to load users for email: %v", selection.ID, err)
		return
	}
	for _, e := range entries {
		if err := emailService.SendSelectionEmail(e.User.Email, project.Title); err != nil {
			log.Printf("selection %d: email to %s failed: %v", selection.ID, e.User.Email, err)
		}
	}
}

func selectionWithUsers(selectionID uint) models.Selection {
	var selection models.Selection
	database.DB.Preload("SelectedUsers").Preload("SelectedUsers.User").First(&selection, selectionID)
	return selection
}

// UpdateSelectionConfig changes the configuration of a non-completed selection
func UpdateSelectionConfig(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	req := new(UpdateSelectionRequest)
	if err := parseAndValidate(c, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	svc := services.NewSelectionService()
	selection, err := svc.UpdateConfig(project.ID, func(s *models.Selection) {
		if req.Mode != "" {
			s.Mode = models.SelectionMode(req.Mode)
		}
		if req.WeightSkillMatch != nil {
			s.WeightSkillMatch = *req.WeightSkillMatch
		}
		if req.WeightBidAmount != nil {
			s.WeightBidAmount = *req.WeightBidAmount
		}
		if req.WeightExperience != nil {
			s.WeightExperience = *req.WeightExperience
		}
		if req.WeightAvailability != nil {
			s.WeightAvailability = *req.WeightAvailability
		}
		if req.MaxBidsToConsider != nil {
			s.MaxBidsToConsider = *req.MaxBidsToConsider
		}
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Selection configuration updated",
		"selection": selection,
	})
}

// CancelSelection cancels a non-completed selection
func CancelSelection(c *fiber.Ctx) error {
	project, errResp := requireProjectOwner(c, c.Params("id"))
	if project == nil {
		return errResp
	}

	svc := services.NewSelectionService()
	selection, err := svc.CancelSelection(project.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Selection cancelled",
		"selection": selection,
	})
}

// GetMySelections lists the owner's selections
func GetMySelections(c *fiber.Ctx) error {
	ownerID := c.Locals("user_id").(uint)

	svc := services.NewSelectionService()
	selections, err := svc.GetByOwner(ownerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"selections": selections,
		"count":      len(selections),
	})
}
