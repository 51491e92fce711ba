package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

func TestNewReviewState(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	learnerID := uuid.New()
	itemID := uuid.New()

	state, err := svc.NewReviewState(learnerID, itemID, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if state.LearnerID != learnerID || state.ItemID != itemID {
		t.Error("Expected learner and item IDs to be kept")
	}

	if state.Interval != 1 {
		t.Errorf("Expected initial interval 1, got %d", state.Interval)
	}

	if state.EaseFactor != 2.5 {
		t.Errorf("Expected initial ease 2.5, got %v", state.EaseFactor)
	}

	if !state.NextReviewAt.Equal(now) {
		t.Errorf("Expected the new item to be immediately due, got %v", state.NextReviewAt)
	}

	if !state.LastReviewedAt.IsZero() {
		t.Errorf("Expected zero last reviewed time, got %v", state.LastReviewedAt)
	}

	if state.LapseCount != 0 || state.ReviewCount != 0 || state.ConsecutiveCorrect != 0 {
		t.Error("Expected all counters to start at zero")
	}
}

func TestNextReviewStateValidation(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	if _, err := svc.NextReviewState(nil, domain.ReviewOutcomeGood, now); err != ErrNilState {
		t.Errorf("Expected ErrNilState, got %v", err)
	}

	state, err := svc.NewReviewState(uuid.New(), uuid.New(), now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := svc.NextReviewState(state, domain.ReviewOutcome("perfect"), now); err != ErrInvalidOutcome {
		t.Errorf("Expected ErrInvalidOutcome, got %v", err)
	}
}

func TestNextReviewStateAdvancesSchedule(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	state, err := svc.NewReviewState(uuid.New(), uuid.New(), now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	newState, err := svc.NextReviewState(state, domain.ReviewOutcomeGood, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if newState.ReviewCount != 1 {
		t.Errorf("Expected review count 1, got %d", newState.ReviewCount)
	}

	if !newState.LastReviewedAt.Equal(now) {
		t.Errorf("Expected last reviewed %v, got %v", now, newState.LastReviewedAt)
	}

	if !newState.NextReviewAt.After(now) {
		t.Errorf("Expected next due after the review, got %v", newState.NextReviewAt)
	}

	if state.ReviewCount != 0 {
		t.Error("Expected input state to be unmodified")
	}
}

func TestPostponeReview(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	state, err := svc.NewReviewState(uuid.New(), uuid.New(), now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	postponed, err := svc.PostponeReview(state, 5, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !postponed.NextReviewAt.Equal(now.AddDate(0, 0, 5)) {
		t.Errorf("Expected next due pushed 5 days, got %v", postponed.NextReviewAt)
	}

	if postponed.ReviewCount != state.ReviewCount {
		t.Error("Expected postpone not to record a review")
	}

	if _, err := svc.PostponeReview(state, 0, now); err != ErrInvalidDays {
		t.Errorf("Expected ErrInvalidDays, got %v", err)
	}

	if _, err := svc.PostponeReview(nil, 3, now); err != ErrNilState {
		t.Errorf("Expected ErrNilState, got %v", err)
	}
}
