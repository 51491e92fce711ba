package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome represents the graded result of a single review attempt.
type ReviewOutcome string

// Possible review outcome values. "again" is the failing grade; the other
// three are passing grades of increasing confidence.
const (
	ReviewOutcomeAgain ReviewOutcome = "again"
	ReviewOutcomeHard  ReviewOutcome = "hard"
	ReviewOutcomeGood  ReviewOutcome = "good"
	ReviewOutcomeEasy  ReviewOutcome = "easy"
)

// IsValid reports whether the outcome is one of the recognized grades.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeAgain, ReviewOutcomeHard, ReviewOutcomeGood, ReviewOutcomeEasy:
		return true
	default:
		return false
	}
}

// Common validation errors for ReviewState
var (
	ErrEmptyStateLearnerID  = errors.New("review state learner ID cannot be empty")
	ErrEmptyStateItemID     = errors.New("review state item ID cannot be empty")
	ErrInvalidInterval      = errors.New("interval must be at least 1 day")
	ErrInvalidEaseFactor    = errors.New("ease factor must be greater than 1.0")
	ErrInvalidLapseCount    = errors.New("lapse count cannot be negative")
	ErrDueBeforeReviewed    = errors.New("next due time cannot precede last reviewed time")
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")
)

// ReviewState tracks one learner's spaced repetition schedule for a single
// learning item. It is created on first exposure and updated only through the
// scheduler; lapse count is monotonically non-decreasing for the lifetime of
// the record.
type ReviewState struct {
	LearnerID          uuid.UUID `json:"learner_id"`
	ItemID             uuid.UUID `json:"item_id"`
	Interval           int       `json:"interval"`            // Current interval in days, always >= 1
	EaseFactor         float64   `json:"ease_factor"`         // Interval growth multiplier, bounded below
	ConsecutiveCorrect int       `json:"consecutive_correct"` // Current streak of passing grades
	LapseCount         int       `json:"lapse_count"`         // Total failed reviews, never decreases
	LastReviewedAt     time.Time `json:"last_reviewed_at"`    // Zero until the first review
	NextReviewAt       time.Time `json:"next_review_at"`      // When the item is next due
	ReviewCount        int       `json:"review_count"`        // Total reviews recorded
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Validate checks if the ReviewState has valid data and that the scheduling
// invariants hold. Returns an error if any check fails.
func (s *ReviewState) Validate() error {
	if s.LearnerID == uuid.Nil {
		return ErrEmptyStateLearnerID
	}

	if s.ItemID == uuid.Nil {
		return ErrEmptyStateItemID
	}

	if s.Interval < 1 {
		return ErrInvalidInterval
	}

	if s.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	if s.LapseCount < 0 {
		return ErrInvalidLapseCount
	}

	if !s.LastReviewedAt.IsZero() && s.NextReviewAt.Before(s.LastReviewedAt) {
		return ErrDueBeforeReviewed
	}

	return nil
}

// IsDue reports whether the item should be offered for review at the given time.
func (s *ReviewState) IsDue(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}
