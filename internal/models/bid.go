package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type BidStatus string
type BidPaymentStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

const (
	BidPaymentNone     BidPaymentStatus = "none"
	BidPaymentLocked   BidPaymentStatus = "locked"
	BidPaymentPaid     BidPaymentStatus = "paid"
	BidPaymentRefunded BidPaymentStatus = "refunded"
)

// Bid is unique per (project, bidder). Status is owned by the selection
// workflow; PaymentStatus is owned by the escrow wallet.
type Bid struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	ProjectID       uint             `gorm:"not null;index;uniqueIndex:idx_project_bidder" json:"project_id"`
	BidderID        uint             `gorm:"not null;index;uniqueIndex:idx_project_bidder" json:"bidder_id"`
	Amount          float64          `gorm:"not null" json:"amount"`
	YearsExperience int              `gorm:"default:0" json:"years_experience"`
	HoursPerWeek    int              `gorm:"default:0" json:"hours_per_week"`
	Skills          string           `gorm:"type:json" json:"skills"` // JSON array of skill names
	Proposal        string           `gorm:"type:text" json:"proposal,omitempty"`
	Status          BidStatus        `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus   BidPaymentStatus `gorm:"type:varchar(20);not null;default:'none'" json:"payment_status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Bidder  User    `gorm:"foreignKey:BidderID" json:"bidder,omitempty"`
}

func (Bid) TableName() string {
	return "bids"
}

// SkillList decodes the JSON skills column. A malformed column reads as empty.
func (b *Bid) SkillList() []string {
	if b.Skills == "" {
		return nil
	}
	var skills []string
	if err := json.Unmarshal([]byte(b.Skills), &skills); err != nil {
		return nil
	}
	return skills
}

// SetSkillList encodes skill names into the JSON skills column.
func (b *Bid) SetSkillList(skills []string) error {
	data, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	b.Skills = string(data)
	return nil
}
