package models

import (
	"time"

	"gorm.io/gorm"
)

type SkillProficiency string

const (
	ProficiencyBeginner     SkillProficiency = "beginner"
	ProficiencyIntermediate SkillProficiency = "intermediate"
	ProficiencyAdvanced     SkillProficiency = "advanced"
	ProficiencyExpert       SkillProficiency = "expert"
)

type User struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	FullName        string  `gorm:"not null" json:"full_name"`
	Email           string  `gorm:"uniqueIndex;not null" json:"email"`
	Phone           string  `json:"phone"`
	Password        string  `gorm:"not null" json:"-"`
	UserTag         string  `gorm:"uniqueIndex;not null" json:"user_tag"`
	Balance         float64 `gorm:"default:0" json:"balance"`
	PendingBalance  float64 `gorm:"default:0" json:"pending_balance"`
	IsEmailVerified bool    `gorm:"default:false" json:"is_email_verified"`

	// Contributor profile used by the selection scorer
	YearsExperience   int    `gorm:"default:0" json:"years_experience"`
	CompletedProjects int    `gorm:"default:0" json:"completed_projects"`
	Bio               string `gorm:"type:text" json:"bio,omitempty"`

	Role          string     `gorm:"default:'user'" json:"role"` // 'user' or 'admin'
	IsSuspended   bool       `gorm:"default:false" json:"is_suspended"`
	SuspendedAt   *time.Time `json:"suspended_at,omitempty"`
	SuspendReason string     `gorm:"type:text" json:"suspend_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Skills []UserSkill `gorm:"foreignKey:UserID" json:"skills,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to set default role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = "user"
	}
	return nil
}

// CanPerformAction checks if user can perform actions
func (u *User) CanPerformAction() bool {
	return !u.IsSuspended
}

type UserSkill struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	UserID      uint             `gorm:"not null;index;uniqueIndex:idx_user_skill_name" json:"user_id"`
	Name        string           `gorm:"not null;uniqueIndex:idx_user_skill_name" json:"name"`
	Proficiency SkillProficiency `gorm:"type:varchar(20);default:'beginner'" json:"proficiency"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}

// ProficiencyLevel maps proficiency to the 1..4 scale used by the scorer.
func (s UserSkill) ProficiencyLevel() int {
	switch s.Proficiency {
	case ProficiencyExpert:
		return 4
	case ProficiencyAdvanced:
		return 3
	case ProficiencyIntermediate:
		return 2
	default:
		return 1
	}
}
