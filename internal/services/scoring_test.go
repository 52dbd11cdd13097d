package services

import (
	"testing"

	"BidVault/internal/models"
)

func defaultWeights() CriteriaWeights {
	return CriteriaWeights{SkillMatch: 40, BidAmount: 30, Experience: 20, Availability: 10}
}

func TestScoreBidAmountBuckets(t *testing.T) {
	cases := []struct {
		bid      float64
		starting float64
		want     float64
	}{
		{2000, 1000, 100},
		{1500, 1000, 80},
		{1200, 1000, 60},
		{1000, 1000, 40},
		{500, 1000, 20},
		{0, 1000, 0},
		{1000, 0, 0},
	}
	for _, tc := range cases {
		got := scoreBidAmount(tc.bid, tc.starting)
		if got != tc.want {
			t.Errorf("scoreBidAmount(%v, %v) = %v, want %v", tc.bid, tc.starting, got, tc.want)
		}
	}
}

func TestScoreBidRequiredSkillVeto(t *testing.T) {
	in := ScoringInput{
		BidAmount:          1500,
		BidSkills:          []string{"python"},
		HoursPerWeek:       40,
		YearsExperience:    10,
		ProjectStartingBid: 1000,
		RequiredSkills: []models.SelectionSkill{
			{Name: "golang", Weight: 50, Required: true},
		},
		Weights: defaultWeights(),
	}

	got := ScoreBid(in)
	if !got.Disqualified {
		t.Fatal("expected bidder missing a required skill to be disqualified")
	}
	if got.TotalScore != 0 {
		t.Errorf("disqualified bid carries total %v, want 0", got.TotalScore)
	}
}

func TestScoreBidOptionalSkillMissIsPenaltyOnly(t *testing.T) {
	in := ScoringInput{
		BidAmount:          1000,
		BidSkills:          []string{"react"},
		HoursPerWeek:       40,
		ProjectStartingBid: 1000,
		RequiredSkills: []models.SelectionSkill{
			{Name: "react", Weight: 50},
			{Name: "golang", Weight: 50},
		},
		Weights: defaultWeights(),
	}

	got := ScoreBid(in)
	if got.Disqualified {
		t.Fatal("optional skill miss must not disqualify")
	}
	if got.SkillMatch != 50 {
		t.Errorf("skill match = %v, want 50", got.SkillMatch)
	}
}

func TestScoreSkillMatchFuzzyAndProfileBonus(t *testing.T) {
	required := []models.SelectionSkill{{Name: "react", Weight: 100, Required: true}}

	// Substring match works in both directions.
	score, dq := scoreSkillMatch(required, []string{"React.js"}, nil)
	if dq || score != 100 {
		t.Errorf("bid-skill fuzzy match: score %v dq %v, want 100 false", score, dq)
	}

	// An expert profile skill earns the proficiency bonus, capped at 100.
	profile := []models.UserSkill{{Name: "react", Proficiency: models.ProficiencyExpert}}
	score, dq = scoreSkillMatch(required, nil, profile)
	if dq {
		t.Fatal("profile match must not disqualify")
	}
	if score != 100 {
		t.Errorf("expert profile match score = %v, want capped 100", score)
	}
}

func TestScoreBidWeightedTotal(t *testing.T) {
	// No required skills: skill match is 100 for everyone and the total
	// is the plain weighted combination.
	in := ScoringInput{
		BidAmount:          2000,
		HoursPerWeek:       40,
		YearsExperience:    5,
		ProjectStartingBid: 1000,
		Weights:            defaultWeights(),
	}

	got := ScoreBid(in)
	// 100*40 + 100*30 + 100*20 + 100*10 over 100
	if got.TotalScore != 100 {
		t.Errorf("total = %v, want 100", got.TotalScore)
	}

	in.Weights = CriteriaWeights{SkillMatch: 100}
	got = ScoreBid(in)
	if got.TotalScore != 100 {
		t.Errorf("skill-only total = %v, want 100", got.TotalScore)
	}
}

func TestScoreExperience(t *testing.T) {
	if got := scoreExperience(0, 0); got != 20 {
		t.Errorf("no experience = %v, want 20", got)
	}
	if got := scoreExperience(5, 0); got != 100 {
		t.Errorf("5 years = %v, want 100", got)
	}
	// 3 years (80) + 10 projects (15) = 95
	if got := scoreExperience(3, 10); got != 95 {
		t.Errorf("3 years + 10 projects = %v, want 95", got)
	}
	// Bonus never pushes past 100.
	if got := scoreExperience(5, 50); got != 100 {
		t.Errorf("capped experience = %v, want 100", got)
	}
}

func TestScoreAvailability(t *testing.T) {
	cases := []struct {
		hours int
		want  float64
	}{
		{45, 100}, {40, 100}, {30, 90}, {20, 75}, {15, 60}, {10, 40}, {5, 20}, {2, 0},
	}
	for _, tc := range cases {
		if got := scoreAvailability(tc.hours); got != tc.want {
			t.Errorf("scoreAvailability(%d) = %v, want %v", tc.hours, got, tc.want)
		}
	}
}
