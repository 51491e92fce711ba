package srs

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// Common errors
var (
	ErrNilState       = errors.New("review state cannot be nil")
	ErrInvalidOutcome = errors.New("invalid review outcome")
	ErrInvalidDays    = errors.New("postpone days must be at least 1")
)

// Service defines the interface for scheduling algorithm operations.
// Implementations are pure: they never touch storage and derive all timing
// from the caller-supplied clock value.
type Service interface {
	// NewReviewState creates the initial state for a learner/item pair.
	// The item is immediately due: NextReviewAt equals now.
	NewReviewState(learnerID, itemID uuid.UUID, now time.Time) (*domain.ReviewState, error)

	// NextReviewState computes a new state from a review outcome. The input
	// state is not modified.
	NextReviewState(
		state *domain.ReviewState,
		outcome domain.ReviewOutcome,
		now time.Time,
	) (*domain.ReviewState, error)

	// PostponeReview pushes the next due time forward by the given number of
	// days without recording a review.
	PostponeReview(state *domain.ReviewState, days int, now time.Time) (*domain.ReviewState, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// NewReviewState implements the Service interface.
func (s *defaultService) NewReviewState(
	learnerID, itemID uuid.UUID,
	now time.Time,
) (*domain.ReviewState, error) {
	state := &domain.ReviewState{
		LearnerID:    learnerID,
		ItemID:       itemID,
		Interval:     s.params.InitialIntervalDays,
		EaseFactor:   s.params.InitialEaseFactor,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// NextReviewState implements the Service interface.
func (s *defaultService) NextReviewState(
	state *domain.ReviewState,
	outcome domain.ReviewOutcome,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !outcome.IsValid() {
		return nil, ErrInvalidOutcome
	}

	return nextState(state, outcome, now, s.params), nil
}

// PostponeReview implements the Service interface.
func (s *defaultService) PostponeReview(
	state *domain.ReviewState,
	days int,
	now time.Time,
) (*domain.ReviewState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	newState := *state
	newState.NextReviewAt = state.NextReviewAt.AddDate(0, 0, days)
	newState.UpdatedAt = now

	return &newState, nil
}
