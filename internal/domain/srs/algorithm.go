package srs

import (
	"math"
	"time"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// nextEaseFactor determines the new ease factor for the given outcome.
//
// The ease factor represents how quickly intervals grow for an item - higher
// values mean the item is easier for this learner. The per-outcome adjustment
// is applied and the result clamped to [MinEaseFactor, MaxEaseFactor] so that
// a run of failures can never drive the review frequency toward zero.
func nextEaseFactor(currentEF float64, outcome domain.ReviewOutcome, params *Params) float64 {
	newEF := currentEF + params.EaseFactorAdjustment[outcome]

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// nextInterval determines the new interval in days after a review.
//
// A failing grade ("again") resets the interval to the configured floor.
// Passing grades grow the current interval:
//   - "good" multiplies by the ease factor
//   - "hard" uses the hard modifier instead of the ease factor
//   - "easy" multiplies by the ease factor and the easy bonus modifier
//
// The result is rounded to whole days and clamped to
// [MinIntervalDays, MaxIntervalDays] so scheduling horizons stay bounded.
func nextInterval(
	currentInterval int,
	easeFactor float64,
	outcome domain.ReviewOutcome,
	params *Params,
) int {
	if outcome == domain.ReviewOutcomeAgain {
		return params.MinIntervalDays
	}

	var modifier float64
	switch outcome {
	case domain.ReviewOutcomeGood:
		modifier = params.IntervalModifier[domain.ReviewOutcomeGood] * easeFactor
	case domain.ReviewOutcomeEasy:
		modifier = params.IntervalModifier[domain.ReviewOutcomeEasy] * easeFactor
	default:
		modifier = params.IntervalModifier[outcome]
	}

	interval := int(math.Round(float64(currentInterval) * modifier))

	if interval < params.MinIntervalDays {
		interval = params.MinIntervalDays
	}
	if interval > params.MaxIntervalDays {
		interval = params.MaxIntervalDays
	}

	return interval
}

// nextState creates a new ReviewState with updated values for the outcome.
//
// The existing state is never mutated: a copy is taken, the review counters
// and schedule are advanced, and the copy returned. The next due time is
// always now plus the new interval, so it can never precede the review time.
func nextState(
	state *domain.ReviewState,
	outcome domain.ReviewOutcome,
	now time.Time,
	params *Params,
) *domain.ReviewState {
	newState := *state

	newState.ReviewCount++
	newState.LastReviewedAt = now
	newState.EaseFactor = nextEaseFactor(state.EaseFactor, outcome, params)

	if outcome == domain.ReviewOutcomeAgain {
		newState.LapseCount++
		newState.ConsecutiveCorrect = 0
	} else {
		newState.ConsecutiveCorrect++
	}

	newState.Interval = nextInterval(state.Interval, newState.EaseFactor, outcome, params)
	newState.NextReviewAt = now.AddDate(0, 0, newState.Interval)
	newState.UpdatedAt = now

	return &newState
}
