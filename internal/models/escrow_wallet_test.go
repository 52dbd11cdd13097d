package models

import (
	"errors"
	"testing"
	"time"
)

func newTestWallet(t *testing.T) *EscrowWallet {
	t.Helper()
	w := &EscrowWallet{
		ID:                   1,
		ProjectID:            1,
		OwnerID:              10,
		TotalBidAmount:       3000,
		TotalBonusPool:       600,
		Status:               WalletActive,
		TotalContributors:    3,
		AmountPerContributor: BonusShare(600, 3),
	}
	w.Recompute()
	return w
}

func checkInvariants(t *testing.T, w *EscrowWallet) {
	t.Helper()
	if w.TotalEscrowAmount != w.TotalBidAmount+w.TotalBonusPool {
		t.Fatalf("escrow total %v != bid %v + bonus %v",
			w.TotalEscrowAmount, w.TotalBidAmount, w.TotalBonusPool)
	}
	if w.RemainingAmount != w.TotalBonusPool-w.DistributedAmount {
		t.Fatalf("remaining %v != bonus %v - distributed %v",
			w.RemainingAmount, w.TotalBonusPool, w.DistributedAmount)
	}
}

func TestBonusShare(t *testing.T) {
	if got := BonusShare(600, 3); got != 200 {
		t.Errorf("BonusShare(600, 3) = %v, want 200", got)
	}
	// Floor division: the remainder stays in the pool.
	if got := BonusShare(100, 3); got != 33 {
		t.Errorf("BonusShare(100, 3) = %v, want 33", got)
	}
	if got := BonusShare(600, 0); got != 0 {
		t.Errorf("BonusShare with zero contributors = %v, want 0", got)
	}
}

func TestLockTransitions(t *testing.T) {
	w := newTestWallet(t)
	now := time.Now()

	fund, err := w.Lock(1, 100, 1000, 200, now)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if fund.TotalAmount != 1200 {
		t.Errorf("fund total = %v, want 1200", fund.TotalAmount)
	}
	if fund.LockStatus != FundLocked {
		t.Errorf("fund status = %s, want locked", fund.LockStatus)
	}
	if w.Status != WalletLocked {
		t.Errorf("wallet status after first lock = %s, want locked", w.Status)
	}
	checkInvariants(t, w)

	// Double lock for the same (user, bid) is rejected.
	if _, err := w.Lock(1, 100, 1000, 200, now); !errors.Is(err, ErrFundAlreadyLocked) {
		t.Errorf("double lock = %v, want ErrFundAlreadyLocked", err)
	}

	// Locking on a released wallet is rejected.
	w.Status = WalletReleased
	if _, err := w.Lock(2, 101, 1000, 200, now); !errors.Is(err, ErrWalletNotActive) {
		t.Errorf("lock on released wallet = %v, want ErrWalletNotActive", err)
	}
}

func TestReleaseFlow(t *testing.T) {
	w := newTestWallet(t)
	now := time.Now()
	w.Lock(1, 100, 1000, 200, now)
	w.Lock(2, 101, 1000, 200, now)
	w.Lock(3, 102, 1000, 200, now)

	fund, err := w.Release(1, 100, ReasonManualRelease, now)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if fund.LockStatus != FundReleased {
		t.Errorf("fund status = %s, want released", fund.LockStatus)
	}
	if w.DistributedAmount != 200 {
		t.Errorf("distributed = %v, want 200", w.DistributedAmount)
	}
	if w.RemainingAmount != 400 {
		t.Errorf("remaining = %v, want 400", w.RemainingAmount)
	}
	checkInvariants(t, w)

	// Releasing again is a state conflict.
	if _, err := w.Release(1, 100, ReasonManualRelease, now); !errors.Is(err, ErrFundNotLocked) {
		t.Errorf("double release = %v, want ErrFundNotLocked", err)
	}
	// Unknown fund.
	if _, err := w.Release(9, 999, ReasonManualRelease, now); !errors.Is(err, ErrFundNotFound) {
		t.Errorf("release of unknown fund = %v, want ErrFundNotFound", err)
	}

	// Releasing the rest distributes the whole pool and releases the wallet.
	w.Release(2, 101, ReasonProjectCompletion, now)
	w.Release(3, 102, ReasonProjectCompletion, now)
	if w.DistributedAmount != 600 || w.RemainingAmount != 0 {
		t.Errorf("after full release: distributed %v remaining %v, want 600 0",
			w.DistributedAmount, w.RemainingAmount)
	}
	if w.Status != WalletReleased {
		t.Errorf("wallet status = %s, want released", w.Status)
	}
	checkInvariants(t, w)
}

func TestRefundKeepsPoolCommitted(t *testing.T) {
	w := newTestWallet(t)
	now := time.Now()
	w.Lock(1, 100, 1000, 200, now)
	w.Lock(2, 101, 1000, 200, now)

	fund, err := w.Refund(1, 100, now)
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if fund.LockStatus != FundRefunded {
		t.Errorf("fund status = %s, want refunded", fund.LockStatus)
	}
	if fund.ReleaseReason != ReasonRefund {
		t.Errorf("release reason = %s, want refund", fund.ReleaseReason)
	}
	if w.TotalBidAmount != 2000 {
		t.Errorf("bid total after refund = %v, want 2000", w.TotalBidAmount)
	}
	// The bonus pool stays committed in full.
	if w.TotalBonusPool != 600 {
		t.Errorf("bonus pool after refund = %v, want 600", w.TotalBonusPool)
	}
	checkInvariants(t, w)

	if _, err := w.Refund(1, 100, now); !errors.Is(err, ErrFundNotLocked) {
		t.Errorf("double refund = %v, want ErrFundNotLocked", err)
	}
}

func TestMoveToBalance(t *testing.T) {
	w := newTestWallet(t)
	now := time.Now()
	w.Lock(1, 100, 1000, 200, now)

	// Moving a still-locked fund is rejected.
	if _, err := w.MoveToBalance(1, 100, now); !errors.Is(err, ErrFundNotReleased) {
		t.Errorf("move of locked fund = %v, want ErrFundNotReleased", err)
	}

	w.Release(1, 100, ReasonManualRelease, now)
	fund, err := w.MoveToBalance(1, 100, now)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if fund.LockStatus != FundMovedToBalance {
		t.Errorf("fund status = %s, want moved_to_balance", fund.LockStatus)
	}

	// Repeating is a conflict, not a no-op.
	if _, err := w.MoveToBalance(1, 100, now); !errors.Is(err, ErrFundAlreadyMoved) {
		t.Errorf("double move = %v, want ErrFundAlreadyMoved", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	w := newTestWallet(t)
	now := time.Now()

	if err := w.MarkCompleted(10, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !w.IsCompleted || w.CompletedBy != 10 {
		t.Errorf("completion fields not set: %+v", w)
	}
	if err := w.MarkCompleted(10, now); !errors.Is(err, ErrProjectAlreadyComplete) {
		t.Errorf("double complete = %v, want ErrProjectAlreadyComplete", err)
	}
}

func TestAllReleased(t *testing.T) {
	w := newTestWallet(t)
	now := time.Now()

	// Empty wallets are never "all released".
	if w.AllReleased() {
		t.Error("empty wallet reported all released")
	}

	w.Lock(1, 100, 1000, 200, now)
	w.Lock(2, 101, 1000, 200, now)
	w.Release(1, 100, ReasonManualRelease, now)
	if w.AllReleased() {
		t.Error("wallet with a locked fund reported all released")
	}

	w.Release(2, 101, ReasonManualRelease, now)
	w.MoveToBalance(1, 100, now)
	if !w.AllReleased() {
		t.Error("moved funds still count as released")
	}
}
