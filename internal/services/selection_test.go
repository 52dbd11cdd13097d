package services

import (
	"testing"

	"BidVault/internal/models"
)

func TestPickBestBid(t *testing.T) {
	bids := []models.Bid{
		{ID: 1, Status: models.BidRejected},
		{ID: 2, Status: models.BidPending},
		{ID: 3, Status: models.BidRejected},
	}
	if got := pickBestBid(bids); got.ID != 2 {
		t.Errorf("pickBestBid = bid %d, want pending bid 2", got.ID)
	}

	bids = append(bids, models.Bid{ID: 4, Status: models.BidAccepted})
	if got := pickBestBid(bids); got.ID != 4 {
		t.Errorf("pickBestBid = bid %d, want accepted bid 4", got.ID)
	}

	// Equal priority keeps the earlier bid.
	bids = []models.Bid{
		{ID: 5, Status: models.BidPending},
		{ID: 6, Status: models.BidPending},
	}
	if got := pickBestBid(bids); got.ID != 5 {
		t.Errorf("pickBestBid tie = bid %d, want first bid 5", got.ID)
	}
}

func TestExceedsSlots(t *testing.T) {
	existing := []models.SelectedUser{{UserID: 1}, {UserID: 2}}

	// 2 existing + 3 new against 3 slots: over.
	if !exceedsSlots(3, existing, []uint{3, 4, 5}) {
		t.Error("2 existing + 3 new should exceed 3 slots")
	}

	// 2 existing + 1 new fills exactly.
	if exceedsSlots(3, existing, []uint{3}) {
		t.Error("2 existing + 1 new fits 3 slots")
	}

	// Re-selecting an existing user consumes no slot.
	if exceedsSlots(3, existing, []uint{1, 3}) {
		t.Error("re-selection must not consume a new slot")
	}

	// Duplicate IDs in the request count once.
	if exceedsSlots(3, existing, []uint{3, 3, 3}) {
		t.Error("duplicate request IDs must count once")
	}
}
