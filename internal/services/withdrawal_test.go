package services

import (
	"errors"
	"testing"

	"BidVault/internal/models"
)

func TestDeduction(t *testing.T) {
	fee, total := Deduction(100)
	if fee != 20 {
		t.Errorf("fee = %v, want 20", fee)
	}
	if total != 120 {
		t.Errorf("total deducted for a 100 withdrawal = %v, want 120", total)
	}

	_, total = Deduction(WithdrawalMax)
	if total != WithdrawalMax+WithdrawalFee {
		t.Errorf("total = %v, want %v", total, WithdrawalMax+WithdrawalFee)
	}
}

func TestValidateWithdrawalAmount(t *testing.T) {
	cases := []struct {
		amount float64
		ok     bool
	}{
		{99.99, false},
		{100, true},
		{50000, true},
		{100000, true},
		{100000.01, false},
		{0, false},
		{-10, false},
	}
	for _, tc := range cases {
		err := ValidateWithdrawalAmount(tc.amount)
		if tc.ok && err != nil {
			t.Errorf("ValidateWithdrawalAmount(%v) = %v, want nil", tc.amount, err)
		}
		if !tc.ok && !errors.Is(err, models.ErrWithdrawalBounds) {
			t.Errorf("ValidateWithdrawalAmount(%v) = %v, want ErrWithdrawalBounds", tc.amount, err)
		}
	}
}
