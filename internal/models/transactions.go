package models

import (
	"time"

	"gorm.io/gorm"
)

type TransactionType string
type TransactionStatus string

const (
	TransactionDeposit       TransactionType = "deposit"
	TransactionBonusFunding  TransactionType = "bonus_funding"
	TransactionEscrowLock    TransactionType = "escrow_lock"
	TransactionEscrowRelease TransactionType = "escrow_release"
	TransactionEscrowRefund  TransactionType = "escrow_refund"
	TransactionBalanceCredit TransactionType = "balance_credit"
	TransactionWithdrawal    TransactionType = "withdrawal"
)

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

type Transaction struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	ProjectID   uint              `gorm:"index" json:"project_id,omitempty"`
	Type        TransactionType   `gorm:"type:varchar(20);not null" json:"type"`
	Amount      float64           `gorm:"not null" json:"amount"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Reference   string            `gorm:"uniqueIndex;not null" json:"reference"`
	Description string            `gorm:"type:text" json:"description"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalCompleted WithdrawalStatus = "completed"
	WithdrawalFailed    WithdrawalStatus = "failed"
)

// Withdrawal records a payout request against the user's available balance.
// TotalDeducted = Amount + Fee is debited before the payout is confirmed;
// the fee is not refunded when the payout fails.
type Withdrawal struct {
	ID            uint             `gorm:"primarykey" json:"id"`
	UserID        uint             `gorm:"not null;index" json:"user_id"`
	BankAccountID uint             `gorm:"not null" json:"bank_account_id"`
	Amount        float64          `gorm:"not null" json:"amount"`
	Fee           float64          `gorm:"not null" json:"fee"`
	TotalDeducted float64          `gorm:"not null" json:"total_deducted"`
	Status        WithdrawalStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Method        string           `gorm:"type:varchar(30);default:'bank_transfer'" json:"method"`
	Reference     string           `gorm:"uniqueIndex;not null" json:"reference"`
	PayoutID      string           `json:"payout_id,omitempty"`
	FailureReason string           `gorm:"type:text" json:"failure_reason,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	User        User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BankAccount BankAccount `gorm:"foreignKey:BankAccountID" json:"bank_account,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
