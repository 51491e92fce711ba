// Package review implements the scheduling service that sits between the API
// layer and the spaced repetition algorithm. It owns transactional reads and
// writes of review state and serializes concurrent answers for the same
// learner/item pair.
package review

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// ReviewService defines the scheduling operations exposed to API handlers.
type ReviewService interface {
	// Initialize creates the review schedule for a learner/item pair. The
	// item is immediately due after initialization. Returns
	// ErrItemNotFound if the item does not exist and ErrAlreadyInitialized
	// if the pair is already scheduled.
	Initialize(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error)

	// RecordAnswer grades one review attempt and advances the schedule.
	// Returns ErrInvalidOutcome for an unsupported grade and ErrUnknownItem
	// if the pair was never initialized. Concurrent answers for the same
	// pair are applied one at a time.
	RecordAnswer(
		ctx context.Context,
		learnerID, itemID uuid.UUID,
		outcome domain.ReviewOutcome,
	) (*domain.ReviewState, error)

	// DueItems returns the learner's due queue in review order, soonest
	// due first. The sequence is lazy: pages are fetched from storage as
	// the caller iterates, and iteration can be abandoned at any point.
	// Ranging over the sequence again restarts from the beginning. A
	// fetch failure is yielded as a non-nil error and ends the sequence.
	DueItems(ctx context.Context, learnerID uuid.UUID, pageSize int) iter.Seq2[*store.DueItem, error]

	// GetState returns the current review state for a learner/item pair.
	// Returns ErrUnknownItem if the pair was never initialized.
	GetState(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error)

	// Postpone pushes the pair's next due time forward by the given number
	// of days without grading a review.
	Postpone(ctx context.Context, learnerID, itemID uuid.UUID, days int) (*domain.ReviewState, error)

	// Progress aggregates the learner's review history across all items.
	Progress(ctx context.Context, learnerID uuid.UUID) (*store.ProgressSummary, error)
}
