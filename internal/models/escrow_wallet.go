package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type WalletStatus string
type LockStatus string
type ReleaseReason string

const (
	WalletActive   WalletStatus = "active"
	WalletLocked   WalletStatus = "locked"
	WalletReleased WalletStatus = "released"
	WalletRefunded WalletStatus = "refunded"
	WalletCancelled WalletStatus = "cancelled"
)

const (
	FundPending        LockStatus = "pending"
	FundLocked         LockStatus = "locked"
	FundReleased       LockStatus = "released"
	FundMovedToBalance LockStatus = "moved_to_balance"
	FundRefunded       LockStatus = "refunded"
	FundWithdrawn      LockStatus = "withdrawn"
)

const (
	ReasonProjectCompletion ReleaseReason = "project_completion"
	ReasonManualRelease     ReleaseReason = "manual_release"
	ReasonRefund            ReleaseReason = "refund"
	ReasonCancellation      ReleaseReason = "cancellation"
)

const (
	AuditActionCreate        = "create"
	AuditActionLock          = "lock"
	AuditActionRelease       = "release"
	AuditActionRefund        = "refund"
	AuditActionMoveToBalance = "move_to_balance"
	AuditActionComplete      = "complete_project"
)

// EscrowWallet is the per-project ledger holding locked contributor funds.
// It is the aggregate root: LockedFunds and the audit trail are owned
// exclusively by the wallet and mutated only through its command methods,
// which validate the current state and return a domain error instead of
// coercing an illegal transition.
type EscrowWallet struct {
	ID        uint `gorm:"primarykey" json:"id"`
	ProjectID uint `gorm:"not null;uniqueIndex" json:"project_id"`
	OwnerID   uint `gorm:"not null;index" json:"owner_id"`

	TotalBidAmount    float64 `gorm:"not null;default:0" json:"total_bid_amount"`
	TotalBonusPool    float64 `gorm:"not null;default:0" json:"total_bonus_pool"`
	TotalEscrowAmount float64 `gorm:"not null;default:0" json:"total_escrow_amount"`

	Status WalletStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	// Bonus pool distribution
	TotalContributors    int     `gorm:"not null;default:0" json:"total_contributors"`
	AmountPerContributor float64 `gorm:"not null;default:0" json:"amount_per_contributor"`
	DistributedAmount    float64 `gorm:"not null;default:0" json:"distributed_amount"`
	RemainingAmount      float64 `gorm:"not null;default:0" json:"remaining_amount"`

	// Project completion
	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy uint       `json:"completed_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LockedFunds []LockedFund     `gorm:"foreignKey:WalletID" json:"locked_funds,omitempty"`
	AuditLogs   []EscrowAuditLog `gorm:"foreignKey:WalletID" json:"audit_logs,omitempty"`
}

func (EscrowWallet) TableName() string {
	return "escrow_wallets"
}

// LockedFund is one contributor's held bid amount plus bonus share.
// TotalAmount is fixed at lock time and never recomputed afterward.
type LockedFund struct {
	ID       uint `gorm:"primarykey" json:"id"`
	WalletID uint `gorm:"not null;index;uniqueIndex:idx_wallet_user_bid" json:"wallet_id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_wallet_user_bid" json:"user_id"`
	BidID    uint `gorm:"not null;uniqueIndex:idx_wallet_user_bid" json:"bid_id"`

	BidAmount   float64 `gorm:"not null" json:"bid_amount"`
	BonusAmount float64 `gorm:"not null" json:"bonus_amount"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`

	LockStatus    LockStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"lock_status"`
	ReleaseReason ReleaseReason `gorm:"type:varchar(30)" json:"release_reason,omitempty"`

	LockedAt   *time.Time `json:"locked_at,omitempty"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	MovedAt    *time.Time `json:"moved_at,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LockedFund) TableName() string {
	return "locked_funds"
}

// EscrowAuditLog rows are append-only and never pruned.
type EscrowAuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	WalletID  uint      `gorm:"not null;index" json:"wallet_id"`
	Action    string    `gorm:"type:varchar(30);not null" json:"action"`
	Amount    float64   `gorm:"not null" json:"amount"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (EscrowAuditLog) TableName() string {
	return "escrow_audit_logs"
}

// BonusShare computes the equal per-contributor share using integer floor
// division. The remainder (totalBonusPool mod contributorCount) stays
// undistributed; callers must not round it back in.
func BonusShare(totalBonusPool float64, contributorCount int) float64 {
	if contributorCount <= 0 {
		return 0
	}
	return math.Floor(totalBonusPool / float64(contributorCount))
}

// Recompute re-derives the wallet's dependent totals. TotalEscrowAmount is
// never independently settable.
func (w *EscrowWallet) Recompute() {
	w.TotalEscrowAmount = w.TotalBidAmount + w.TotalBonusPool
	w.RemainingAmount = w.TotalBonusPool - w.DistributedAmount
}

// FindFund returns the fund for (userID, bidID), or nil.
func (w *EscrowWallet) FindFund(userID, bidID uint) *LockedFund {
	for i := range w.LockedFunds {
		f := &w.LockedFunds[i]
		if f.UserID == userID && f.BidID == bidID {
			return f
		}
	}
	return nil
}

// Lock creates a locked fund for the pair. A second lock for the same
// (userID, bidID) is rejected. The first lock flips the wallet from active
// to locked.
func (w *EscrowWallet) Lock(userID, bidID uint, bidAmount, bonusAmount float64, now time.Time) (*LockedFund, error) {
	if w.Status == WalletReleased || w.Status == WalletCancelled || w.Status == WalletRefunded {
		return nil, ErrWalletNotActive
	}
	if w.FindFund(userID, bidID) != nil {
		return nil, ErrFundAlreadyLocked
	}

	fund := LockedFund{
		WalletID:    w.ID,
		UserID:      userID,
		BidID:       bidID,
		BidAmount:   bidAmount,
		BonusAmount: bonusAmount,
		TotalAmount: bidAmount + bonusAmount,
		LockStatus:  FundLocked,
		LockedAt:    &now,
	}
	w.LockedFunds = append(w.LockedFunds, fund)

	if w.Status == WalletActive {
		w.Status = WalletLocked
	}
	w.Recompute()
	return &w.LockedFunds[len(w.LockedFunds)-1], nil
}

// Release moves a locked fund to released and shifts its bonus share from
// remaining to distributed. When every fund has been released the wallet
// itself flips to released.
func (w *EscrowWallet) Release(userID, bidID uint, reason ReleaseReason, now time.Time) (*LockedFund, error) {
	fund := w.FindFund(userID, bidID)
	if fund == nil {
		return nil, ErrFundNotFound
	}
	if fund.LockStatus != FundLocked {
		return nil, ErrFundNotLocked
	}

	fund.LockStatus = FundReleased
	fund.ReleaseReason = reason
	fund.ReleasedAt = &now

	w.DistributedAmount += fund.BonusAmount
	w.Recompute()

	if w.AllReleased() {
		w.Status = WalletReleased
	}
	return fund, nil
}

// Refund moves a locked fund to refunded and removes its bid amount from
// the wallet totals. The bonus pool total is untouched: it is a committed
// pool, not a per-fund allocation.
func (w *EscrowWallet) Refund(userID, bidID uint, now time.Time) (*LockedFund, error) {
	fund := w.FindFund(userID, bidID)
	if fund == nil {
		return nil, ErrFundNotFound
	}
	if fund.LockStatus != FundLocked {
		return nil, ErrFundNotLocked
	}

	fund.LockStatus = FundRefunded
	fund.ReleaseReason = ReasonRefund
	fund.RefundedAt = &now

	w.TotalBidAmount -= fund.BidAmount
	w.Recompute()
	return fund, nil
}

// MoveToBalance transitions a released fund to moved_to_balance. Repeating
// the call is a state conflict, not a no-op.
func (w *EscrowWallet) MoveToBalance(userID, bidID uint, now time.Time) (*LockedFund, error) {
	fund := w.FindFund(userID, bidID)
	if fund == nil {
		return nil, ErrFundNotFound
	}
	if fund.LockStatus == FundMovedToBalance {
		return nil, ErrFundAlreadyMoved
	}
	if fund.LockStatus != FundReleased {
		return nil, ErrFundNotReleased
	}

	fund.LockStatus = FundMovedToBalance
	fund.MovedAt = &now
	return fund, nil
}

// MarkCompleted records owner-triggered project completion.
func (w *EscrowWallet) MarkCompleted(by uint, now time.Time) error {
	if w.IsCompleted {
		return ErrProjectAlreadyComplete
	}
	w.IsCompleted = true
	w.CompletedAt = &now
	w.CompletedBy = by
	return nil
}

// AllReleased reports whether every fund has left the locked state via
// release (moved or withdrawn funds were released earlier).
func (w *EscrowWallet) AllReleased() bool {
	if len(w.LockedFunds) == 0 {
		return false
	}
	for i := range w.LockedFunds {
		switch w.LockedFunds[i].LockStatus {
		case FundReleased, FundMovedToBalance, FundWithdrawn:
		default:
			return false
		}
	}
	return true
}

// LockedFundsOnly returns the funds still in locked state, for batch release.
func (w *EscrowWallet) LockedFundsOnly() []*LockedFund {
	var out []*LockedFund
	for i := range w.LockedFunds {
		if w.LockedFunds[i].LockStatus == FundLocked {
			out = append(out, &w.LockedFunds[i])
		}
	}
	return out
}

// AuditEntry builds an append-only audit row for the wallet. The caller
// persists it inside the same transaction as the state change.
func (w *EscrowWallet) AuditEntry(action string, amount float64, userID uint, notes string) EscrowAuditLog {
	return EscrowAuditLog{
		WalletID: w.ID,
		Action:   action,
		Amount:   amount,
		UserID:   userID,
		Notes:    notes,
	}
}
