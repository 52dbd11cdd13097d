package models

import "testing"

func TestBonusPoolRecompute(t *testing.T) {
	p := BonusPool{AmountPerContributor: 200, ContributorCount: 3}
	p.Recompute()
	if p.TotalAmount != 600 {
		t.Errorf("total = %v, want 600", p.TotalAmount)
	}
	if p.RemainingAmount != 600 {
		t.Errorf("remaining = %v, want 600", p.RemainingAmount)
	}

	p.DistributedAmount = 400
	p.Recompute()
	if p.RemainingAmount != 200 {
		t.Errorf("remaining after distribution = %v, want 200", p.RemainingAmount)
	}
}
