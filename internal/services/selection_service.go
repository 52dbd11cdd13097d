package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"BidVault/internal/database"
	"BidVault/internal/models"
)

// SelectionService orchestrates the scorer over a project's bids and owns
// the Selection record and its selected-user set.
type SelectionService struct{}

func NewSelectionService() *SelectionService {
	return &SelectionService{}
}

type RankedBidder struct {
	Bid       models.Bid     `json:"bid"`
	Bidder    models.User    `json:"bidder"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// CreateSelection creates the per-project selection configuration. Weights
// are validated by the model on persist.
func (s *SelectionService) CreateSelection(sel *models.Selection, skills []models.SelectionSkill) error {
	if err := sel.ValidateWeights(); err != nil {
		return err
	}
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sel).Error; err != nil {
			return err
		}
		for i := range skills {
			skills[i].SelectionID = sel.ID
		}
		if len(skills) > 0 {
			if err := tx.Create(&skills).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RankBidders scores every pending bid for the project and returns the
// qualified bidders in descending score order. Bids are loaded in creation
// order, and the sort is stable, so insertion order is the tiebreak.
func (s *SelectionService) RankBidders(projectID uint) ([]RankedBidder, error) {
	var selection models.Selection
	if err := database.DB.Preload("RequiredSkills").Where("project_id = ?", projectID).First(&selection).Error; err != nil {
		return nil, err
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return nil, err
	}

	var bids []models.Bid
	if err := database.DB.Where("project_id = ? AND status = ?", projectID, models.BidPending).
		Order("created_at ASC").Find(&bids).Error; err != nil {
		return nil, err
	}

	weights := CriteriaWeights{
		SkillMatch:   selection.WeightSkillMatch,
		BidAmount:    selection.WeightBidAmount,
		Experience:   selection.WeightExperience,
		Availability: selection.WeightAvailability,
	}

	ranked := make([]RankedBidder, 0, len(bids))
	for _, bid := range bids {
		var bidder models.User
		if err := database.DB.Preload("Skills").First(&bidder, bid.BidderID).Error; err != nil {
			continue
		}

		breakdown := ScoreBid(ScoringInput{
			BidAmount:          bid.Amount,
			BidSkills:          bid.SkillList(),
			HoursPerWeek:       bid.HoursPerWeek,
			YearsExperience:    bid.YearsExperience,
			CompletedProjects:  bidder.CompletedProjects,
			ProfileSkills:      bidder.Skills,
			ProjectStartingBid: project.StartingBid,
			RequiredSkills:     selection.RequiredSkills,
			Weights:            weights,
		})
		if breakdown.Disqualified {
			continue
		}
		ranked = append(ranked, RankedBidder{Bid: bid, Bidder: bidder, Breakdown: breakdown})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.TotalScore > ranked[j].Breakdown.TotalScore
	})

	if selection.MaxBidsToConsider > 0 && len(ranked) > selection.MaxBidsToConsider {
		ranked = ranked[:selection.MaxBidsToConsider]
	}
	return ranked, nil
}

// AutoSelect runs the scorer and fills the remaining contributor slots with
// the top qualified bidders.
func (s *SelectionService) AutoSelect(projectID uint) (*models.Selection, error) {
	ranked, err := s.RankBidders(projectID)
	if err != nil {
		return nil, err
	}

	var selection models.Selection
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", projectID).First(&selection).Error; err != nil {
			return err
		}
		if selection.Status == models.SelectionCompleted {
			return models.ErrSelectionFrozen
		}
		if selection.Status == models.SelectionCancelled {
			return models.ErrSelectionCancelled
		}

		var existing []models.SelectedUser
		if err := tx.Where("selection_id = ?", selection.ID).Find(&existing).Error; err != nil {
			return err
		}
		selected := make(map[uint]bool, len(existing))
		for _, e := range existing {
			selected[e.UserID] = true
		}

		count := len(existing)
		for _, r := range ranked {
			if count >= selection.RequiredContributors {
				break
			}
			if selected[r.Bid.BidderID] {
				continue
			}
			if err := s.recordSelection(tx, &selection, r.Bid.BidderID, r.Bid.ID, r.Breakdown, "automatic"); err != nil {
				return err
			}
			selected[r.Bid.BidderID] = true
			count++
		}

		return s.updateStatus(tx, &selection, count)
	})
	if err != nil {
		return nil, err
	}

	s.notifySelected(&selection)
	return &selection, nil
}

// ManualSelect selects the given users. The whole request is rejected when
// any user has no bid for the project or when the net new selections would
// exceed the remaining contributor slots. Re-selecting an already-selected
// user replaces the prior entry.
func (s *SelectionService) ManualSelect(projectID uint, userIDs []uint) (*models.Selection, error) {
	var selection models.Selection
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("RequiredSkills").
			Where("project_id = ?", projectID).First(&selection).Error; err != nil {
			return err
		}
		if selection.Status == models.SelectionCompleted {
			return models.ErrSelectionFrozen
		}
		if selection.Status == models.SelectionCancelled {
			return models.ErrSelectionCancelled
		}

		var project models.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			return err
		}

		var existing []models.SelectedUser
		if err := tx.Where("selection_id = ?", selection.ID).Find(&existing).Error; err != nil {
			return err
		}
		selected := make(map[uint]bool, len(existing))
		for _, e := range existing {
			selected[e.UserID] = true
		}

		// Every requested user must have a bid; checked up front so a bad
		// request mutates nothing.
		bestBids := make(map[uint]models.Bid, len(userIDs))
		for _, userID := range userIDs {
			var bids []models.Bid
			if err := tx.Where("project_id = ? AND bidder_id = ?", projectID, userID).
				Order("created_at ASC").Find(&bids).Error; err != nil {
				return err
			}
			if len(bids) == 0 {
				return fmt.Errorf("%w: user %d", models.ErrNoBidForUser, userID)
			}
			bestBids[userID] = pickBestBid(bids)
		}

		if exceedsSlots(selection.RequiredContributors, existing, userIDs) {
			return models.ErrSlotsExceeded
		}

		weights := CriteriaWeights{
			SkillMatch:   selection.WeightSkillMatch,
			BidAmount:    selection.WeightBidAmount,
			Experience:   selection.WeightExperience,
			Availability: selection.WeightAvailability,
		}

		for _, userID := range userIDs {
			bid := bestBids[userID]

			var bidder models.User
			if err := tx.Preload("Skills").First(&bidder, userID).Error; err != nil {
				return err
			}
			breakdown := ScoreBid(ScoringInput{
				BidAmount:          bid.Amount,
				BidSkills:          bid.SkillList(),
				HoursPerWeek:       bid.HoursPerWeek,
				YearsExperience:    bid.YearsExperience,
				CompletedProjects:  bidder.CompletedProjects,
				ProfileSkills:      bidder.Skills,
				ProjectStartingBid: project.StartingBid,
				RequiredSkills:     selection.RequiredSkills,
				Weights:            weights,
			})

			if selected[userID] {
				// Replace the prior entry rather than duplicating it.
				if err := tx.Where("selection_id = ? AND user_id = ?", selection.ID, userID).
					Delete(&models.SelectedUser{}).Error; err != nil {
					return err
				}
			}
			if err := s.recordSelection(tx, &selection, userID, bid.ID, breakdown, "manual"); err != nil {
				return err
			}
			selected[userID] = true
		}

		return s.updateStatus(tx, &selection, len(selected))
	})
	if err != nil {
		return nil, err
	}

	s.notifySelected(&selection)
	return &selection, nil
}

// UpdateConfig changes the selection configuration. Completed selections
// are frozen.
func (s *SelectionService) UpdateConfig(projectID uint, apply func(*models.Selection)) (*models.Selection, error) {
	var selection models.Selection
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", projectID).First(&selection).Error; err != nil {
			return err
		}
		if selection.IsFrozen() {
			return models.ErrSelectionFrozen
		}
		apply(&selection)
		if err := selection.ValidateWeights(); err != nil {
			return err
		}
		return tx.Save(&selection).Error
	})
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

// CancelSelection is allowed from any non-completed state.
func (s *SelectionService) CancelSelection(projectID uint) (*models.Selection, error) {
	var selection models.Selection
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("project_id = ?", projectID).First(&selection).Error; err != nil {
			return err
		}
		if selection.Status == models.SelectionCompleted {
			return models.ErrSelectionFrozen
		}
		selection.Status = models.SelectionCancelled
		return tx.Save(&selection).Error
	})
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

// GetByOwner lists the owner's selections with their selected users.
func (s *SelectionService) GetByOwner(ownerID uint) ([]models.Selection, error) {
	var selections []models.Selection
	err := database.DB.Preload("SelectedUsers").Preload("SelectedUsers.User").
		Preload("RequiredSkills").
		Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&selections).Error
	return selections, err
}

func (s *SelectionService) recordSelection(tx *gorm.DB, selection *models.Selection, userID, bidID uint, breakdown ScoreBreakdown, reason string) error {
	entry := models.SelectedUser{
		SelectionID:       selection.ID,
		UserID:            userID,
		BidID:             bidID,
		SkillMatchScore:   breakdown.SkillMatch,
		BidAmountScore:    breakdown.BidAmount,
		ExperienceScore:   breakdown.Experience,
		AvailabilityScore: breakdown.Availability,
		TotalScore:        breakdown.TotalScore,
		SelectionReason:   reason,
		SelectedAt:        time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return tx.Model(&models.Bid{}).Where("id = ?", bidID).
		Update("status", models.BidAccepted).Error
}

func (s *SelectionService) updateStatus(tx *gorm.DB, selection *models.Selection, selectedCount int) error {
	if selectedCount >= selection.RequiredContributors {
		selection.Status = models.SelectionCompleted
	} else {
		selection.Status = models.SelectionInProgress
	}
	return tx.Save(selection).Error
}

// notifySelected is fire-and-forget: notification failures are logged,
// never propagated.
func (s *SelectionService) notifySelected(selection *models.Selection) {
	var entries []models.SelectedUser
	if err := database.DB.Preload("User").Where("selection_id = ?", selection.ID).Find(&entries).Error; err != nil {
		log.Printf("selection %d: failed to load selected users for notification: %v", selection.ID, err)
		return
	}
	notif := NewNotificationService()
	for _, e := range entries {
		if err := notif.NotifyUserSelected(e.UserID, selection.ProjectID, e.TotalScore); err != nil {
			log.Printf("selection %d: notify user %d failed: %v", selection.ID, e.UserID, err)
		}
	}
}

// pickBestBid chooses a user's best bid by status priority
// Accepted > Pending > Rejected. A previously rejected bid may be
// re-accepted. Ties keep creation order.
func pickBestBid(bids []models.Bid) models.Bid {
	best := bids[0]
	for _, b := range bids[1:] {
		if bidPriority(b.Status) > bidPriority(best.Status) {
			best = b
		}
	}
	return best
}

func bidPriority(status models.BidStatus) int {
	switch status {
	case models.BidAccepted:
		return 3
	case models.BidPending:
		return 2
	default:
		return 1
	}
}

// exceedsSlots reports whether selecting userIDs on top of the existing
// entries would exceed the required contributor count. Re-selected users
// replace their prior entry and do not consume a new slot.
func exceedsSlots(required int, existing []models.SelectedUser, userIDs []uint) bool {
	selected := make(map[uint]bool, len(existing))
	for _, e := range existing {
		selected[e.UserID] = true
	}
	total := len(existing)
	seen := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !selected[id] {
			total++
		}
	}
	return total > required
}
