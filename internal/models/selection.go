package models

import (
	"time"

	"gorm.io/gorm"
)

type SelectionMode string
type SelectionStatus string

const (
	SelectionManual    SelectionMode = "manual"
	SelectionAutomatic SelectionMode = "automatic"
	SelectionHybrid    SelectionMode = "hybrid"
)

const (
	SelectionPending    SelectionStatus = "pending"
	SelectionInProgress SelectionStatus = "in_progress"
	SelectionCompleted  SelectionStatus = "completed"
	SelectionCancelled  SelectionStatus = "cancelled"
	SelectionFailed     SelectionStatus = "failed"
)

// Selection holds the contributor-selection configuration and result for
// one project. The four criteria weights must sum to exactly 100 and are
// validated on every persist.
type Selection struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	ProjectID            uint            `gorm:"not null;uniqueIndex" json:"project_id"`
	OwnerID              uint            `gorm:"not null;index" json:"owner_id"`
	Mode                 SelectionMode   `gorm:"type:varchar(20);not null;default:'manual'" json:"mode"`
	RequiredContributors int             `gorm:"not null;default:1" json:"required_contributors"`
	WeightSkillMatch     float64         `gorm:"not null;default:40" json:"weight_skill_match"`
	WeightBidAmount      float64         `gorm:"not null;default:30" json:"weight_bid_amount"`
	WeightExperience     float64         `gorm:"not null;default:20" json:"weight_experience"`
	WeightAvailability   float64         `gorm:"not null;default:10" json:"weight_availability"`
	MaxBidsToConsider    int             `gorm:"not null;default:50" json:"max_bids_to_consider"`
	Status               SelectionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Project        Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	RequiredSkills []SelectionSkill `gorm:"foreignKey:SelectionID" json:"required_skills,omitempty"`
	SelectedUsers  []SelectedUser   `gorm:"foreignKey:SelectionID" json:"selected_users,omitempty"`
}

func (Selection) TableName() string {
	return "selections"
}

// ValidateWeights enforces the sum-to-100 invariant on the criteria weights.
func (s *Selection) ValidateWeights() error {
	for _, w := range []float64{s.WeightSkillMatch, s.WeightBidAmount, s.WeightExperience, s.WeightAvailability} {
		if w < 0 {
			return ErrWeightsInvalid
		}
	}
	if s.WeightSkillMatch+s.WeightBidAmount+s.WeightExperience+s.WeightAvailability != 100 {
		return ErrWeightsInvalid
	}
	return nil
}

// BeforeSave hook validates the weights on every persist
func (s *Selection) BeforeSave(tx *gorm.DB) error {
	return s.ValidateWeights()
}

// IsFrozen reports whether configuration changes are still allowed.
func (s *Selection) IsFrozen() bool {
	return s.Status == SelectionCompleted
}

type SelectionSkill struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	SelectionID uint      `gorm:"not null;index" json:"selection_id"`
	Name        string    `gorm:"not null" json:"name"`
	Weight      float64   `gorm:"not null;default:1" json:"weight"`
	Required    bool      `gorm:"default:false" json:"required"`
	Category    string    `gorm:"type:varchar(50)" json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SelectionSkill) TableName() string {
	return "selection_skills"
}

// SelectedUser is immutable once created; re-selecting a user replaces the
// row rather than mutating it.
type SelectedUser struct {
	ID          uint `gorm:"primarykey" json:"id"`
	SelectionID uint `gorm:"not null;index;uniqueIndex:idx_selection_user" json:"selection_id"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_selection_user" json:"user_id"`
	BidID       uint `gorm:"not null" json:"bid_id"`

	SkillMatchScore   float64 `gorm:"default:0" json:"skill_match_score"`
	BidAmountScore    float64 `gorm:"default:0" json:"bid_amount_score"`
	ExperienceScore   float64 `gorm:"default:0" json:"experience_score"`
	AvailabilityScore float64 `gorm:"default:0" json:"availability_score"`
	TotalScore        float64 `gorm:"default:0" json:"total_score"`

	SelectionReason string    `gorm:"type:varchar(20);not null;default:'manual'" json:"selection_reason"` // 'manual' or 'automatic'
	SelectedAt      time.Time `json:"selected_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bid  Bid  `gorm:"foreignKey:BidID" json:"bid,omitempty"`
}

func (SelectedUser) TableName() string {
	return "selected_users"
}
