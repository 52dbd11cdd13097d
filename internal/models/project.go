package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectCategory string
type ProjectStatus string

const (
	ProjectCategoryFree ProjectCategory = "free"
	ProjectCategoryPaid ProjectCategory = "paid"
)

const (
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

type Project struct {
	ID                   uint            `gorm:"primarykey" json:"id"`
	OwnerID              uint            `gorm:"not null;index" json:"owner_id"`
	Title                string          `gorm:"not null" json:"title"`
	Description          string          `gorm:"type:text" json:"description"`
	Category             ProjectCategory `gorm:"type:varchar(10);not null;default:'free'" json:"category"`
	StartingBid          float64         `gorm:"not null" json:"starting_bid"`
	RequiredContributors int             `gorm:"not null;default:1" json:"required_contributors"`
	BonusPerContributor  float64         `gorm:"default:0" json:"bonus_per_contributor"`
	Status               ProjectStatus   `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Owner User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Bids  []Bid `gorm:"foreignKey:ProjectID" json:"bids,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
