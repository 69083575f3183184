package lead

import "gharinto/internal/domain"

// Scoring bands. Components are independently capped and never negative; the
// sum is clamped to [0,100]. Bands are provisional business parameters.
const (
	budgetCap      = 30
	budgetTierHigh = 500_000
	budgetTierMid  = 250_000
	budgetTierLow  = 100_000

	timelineImmediate  = 25
	timelineOneToThree = 20
	timelineThreeToSix = 15
	timelineDefault    = 10

	scopeFullHome      = 20
	scopeMultipleRooms = 15
	scopeDefault       = 10

	sourceReferral = 15
	sourceWebsite  = 10
	sourceDefault  = 8
)

// Score is pure: identical inputs always yield the same result, so edits can
// re-score without hidden state.
func Score(l *domain.Lead) int {
	total := budgetComponent(l.BudgetMin) +
		timelineComponent(l.Timeline) +
		scopeComponent(l.ProjectType) +
		sourceComponent(l.Source)

	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

func budgetComponent(budgetMin *int64) int {
	if budgetMin == nil || *budgetMin <= 0 {
		return 0
	}
	switch {
	case *budgetMin >= budgetTierHigh:
		return budgetCap
	case *budgetMin >= budgetTierMid:
		return 22
	case *budgetMin >= budgetTierLow:
		return 15
	default:
		return 8
	}
}

func timelineComponent(t domain.Timeline) int {
	switch t {
	case domain.TimelineImmediate:
		return timelineImmediate
	case domain.TimelineOneToThree:
		return timelineOneToThree
	case domain.TimelineThreeToSix:
		return timelineThreeToSix
	default:
		return timelineDefault
	}
}

func scopeComponent(p domain.ProjectType) int {
	switch p {
	case domain.ProjectTypeFullHome:
		return scopeFullHome
	case domain.ProjectTypeMultipleRooms:
		return scopeMultipleRooms
	default:
		return scopeDefault
	}
}

func sourceComponent(s domain.LeadSource) int {
	switch s {
	case domain.SourceReferral:
		return sourceReferral
	case domain.SourceWebsiteForm:
		return sourceWebsite
	default:
		return sourceDefault
	}
}
