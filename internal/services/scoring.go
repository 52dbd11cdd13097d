package services

import (
	"strings"

	"BidVault/internal/models"
)

// ScoreBreakdown is the scorer output for one bid. Disqualified bids carry
// a zero total regardless of the other criteria.
type ScoreBreakdown struct {
	SkillMatch   float64 `json:"skill_match"`
	BidAmount    float64 `json:"bid_amount"`
	Experience   float64 `json:"experience"`
	Availability float64 `json:"availability"`
	TotalScore   float64 `json:"total_score"`
	Disqualified bool    `json:"disqualified"`
}

// ScoringInput collects everything the scorer reads. It has no side
// effects and touches no storage.
type ScoringInput struct {
	BidAmount         float64
	BidSkills         []string
	HoursPerWeek      int
	YearsExperience   int
	CompletedProjects int
	ProfileSkills     []models.UserSkill
	ProjectStartingBid float64
	RequiredSkills    []models.SelectionSkill
	Weights           CriteriaWeights
}

type CriteriaWeights struct {
	SkillMatch   float64
	BidAmount    float64
	Experience   float64
	Availability float64
}

// ScoreBid ranks a single bid against the selection configuration.
func ScoreBid(in ScoringInput) ScoreBreakdown {
	skillScore, disqualified := scoreSkillMatch(in.RequiredSkills, in.BidSkills, in.ProfileSkills)
	if disqualified {
		// Missing a required skill is a hard veto, not a penalty.
		return ScoreBreakdown{Disqualified: true}
	}

	breakdown := ScoreBreakdown{
		SkillMatch:   skillScore,
		BidAmount:    scoreBidAmount(in.BidAmount, in.ProjectStartingBid),
		Experience:   scoreExperience(in.YearsExperience, in.CompletedProjects),
		Availability: scoreAvailability(in.HoursPerWeek),
	}
	breakdown.TotalScore = (breakdown.SkillMatch*in.Weights.SkillMatch +
		breakdown.BidAmount*in.Weights.BidAmount +
		breakdown.Experience*in.Weights.Experience +
		breakdown.Availability*in.Weights.Availability) / 100
	return breakdown
}

// scoreSkillMatch walks the required skills, crediting each skill's weight
// when it matches the bid's skill list or the bidder's profile. Profile
// matches earn up to a 20% bonus scaled by proficiency (beginner=1 ..
// expert=4). A skill flagged required that matches neither source
// disqualifies the bidder outright.
func scoreSkillMatch(required []models.SelectionSkill, bidSkills []string, profile []models.UserSkill) (float64, bool) {
	if len(required) == 0 {
		return 100, false
	}

	var earned, totalWeight float64
	for _, req := range required {
		totalWeight += req.Weight

		if matchesAny(req.Name, bidSkills) {
			earned += req.Weight
			continue
		}

		if skill, ok := matchProfile(req.Name, profile); ok {
			level := float64(skill.ProficiencyLevel())
			earned += req.Weight * (1 + 0.2*level/4)
			continue
		}

		if req.Required {
			return 0, true
		}
	}

	if totalWeight == 0 {
		return 100, false
	}
	score := earned / totalWeight * 100
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, false
}

// fuzzyMatch is a case-insensitive substring match in both directions, so
// "react" matches "React.js" and vice versa.
func fuzzyMatch(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func matchesAny(name string, skills []string) bool {
	for _, s := range skills {
		if fuzzyMatch(name, s) {
			return true
		}
	}
	return false
}

func matchProfile(name string, profile []models.UserSkill) (models.UserSkill, bool) {
	for _, s := range profile {
		if fuzzyMatch(name, s.Name) {
			return s, true
		}
	}
	return models.UserSkill{}, false
}

// scoreBidAmount rewards larger commitments: the ratio of bid to the
// project's starting bid is bucketed so that higher bids score higher.
func scoreBidAmount(bidAmount, startingBid float64) float64 {
	if startingBid <= 0 {
		return 0
	}
	ratio := bidAmount / startingBid
	switch {
	case ratio >= 2.0:
		return 100
	case ratio >= 1.5:
		return 80
	case ratio >= 1.2:
		return 60
	case ratio >= 1.0:
		return 40
	default:
		return ratio * 40
	}
}

func scoreExperience(years, completedProjects int) float64 {
	var score float64
	switch {
	case years >= 5:
		score = 100
	case years >= 3:
		score = 80
	case years >= 2:
		score = 60
	case years >= 1:
		score = 40
	default:
		score = 20
	}

	switch {
	case completedProjects >= 20:
		score += 20
	case completedProjects >= 10:
		score += 15
	case completedProjects >= 5:
		score += 10
	case completedProjects >= 2:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

func scoreAvailability(hoursPerWeek int) float64 {
	switch {
	case hoursPerWeek >= 40:
		return 100
	case hoursPerWeek >= 30:
		return 90
	case hoursPerWeek >= 20:
		return 75
	case hoursPerWeek >= 15:
		return 60
	case hoursPerWeek >= 10:
		return 40
	case hoursPerWeek >= 5:
		return 20
	default:
		return 0
	}
}
