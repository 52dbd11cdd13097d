package models

import (
	"time"

	"gorm.io/gorm"
)

type BonusPoolStatus string

const (
	PoolPending     BonusPoolStatus = "pending"
	PoolFunded      BonusPoolStatus = "funded"
	PoolDistributed BonusPoolStatus = "distributed"
	PoolCancelled   BonusPoolStatus = "cancelled"
)

// BonusPool is the owner-funded pot divided equally among selected
// contributors. Created in pending state alongside the project listing;
// becomes funded only after a successful payment capture.
type BonusPool struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	ProjectID            uint            `gorm:"not null;uniqueIndex" json:"project_id"`
	OwnerID              uint            `gorm:"not null;index" json:"owner_id"`
	AmountPerContributor float64         `gorm:"not null" json:"amount_per_contributor"`
	ContributorCount     int             `gorm:"not null" json:"contributor_count"`
	TotalAmount          float64         `gorm:"not null" json:"total_amount"`
	DistributedAmount    float64         `gorm:"default:0" json:"distributed_amount"`
	RemainingAmount      float64         `gorm:"default:0" json:"remaining_amount"`
	Status               BonusPoolStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentReference     string          `gorm:"index" json:"payment_reference,omitempty"`
	FundedAt             *time.Time      `json:"funded_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`

	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (BonusPool) TableName() string {
	return "bonus_pools"
}

// Recompute re-derives the dependent amounts. Invoked explicitly by every
// command that changes an amount, and again by the BeforeSave hook so the
// invariant holds at the persistence boundary.
func (p *BonusPool) Recompute() {
	p.TotalAmount = p.AmountPerContributor * float64(p.ContributorCount)
	p.RemainingAmount = p.TotalAmount - p.DistributedAmount
}

func (p *BonusPool) BeforeSave(tx *gorm.DB) error {
	p.Recompute()
	return nil
}
