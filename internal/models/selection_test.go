package models

import (
	"errors"
	"testing"
)

func TestValidateWeights(t *testing.T) {
	s := Selection{
		WeightSkillMatch:   40,
		WeightBidAmount:    30,
		WeightExperience:   20,
		WeightAvailability: 10,
	}
	if err := s.ValidateWeights(); err != nil {
		t.Fatalf("default weights rejected: %v", err)
	}

	// Weights must sum to exactly 100.
	s.WeightAvailability = 5
	if err := s.ValidateWeights(); !errors.Is(err, ErrWeightsInvalid) {
		t.Errorf("sum 95 = %v, want ErrWeightsInvalid", err)
	}

	// A single criterion at 100 is fine.
	s = Selection{WeightSkillMatch: 100}
	if err := s.ValidateWeights(); err != nil {
		t.Errorf("skill-only weights rejected: %v", err)
	}

	// Negative weights are rejected even when the sum works out.
	s = Selection{WeightSkillMatch: 110, WeightBidAmount: -10}
	if err := s.ValidateWeights(); !errors.Is(err, ErrWeightsInvalid) {
		t.Errorf("negative weight = %v, want ErrWeightsInvalid", err)
	}
}

func TestSelectionIsFrozen(t *testing.T) {
	s := Selection{Status: SelectionInProgress}
	if s.IsFrozen() {
		t.Error("in-progress selection reported frozen")
	}
	s.Status = SelectionCompleted
	if !s.IsFrozen() {
		t.Error("completed selection not frozen")
	}
}
