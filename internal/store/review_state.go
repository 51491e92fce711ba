package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// DueItem pairs a learning item with the due time that put it in the review
// queue. The due time doubles as the pagination cursor for ListDue.
type DueItem struct {
	Item         *domain.LearningItem
	NextReviewAt time.Time
}

// ProgressSummary aggregates a learner's review history across all items.
// It backs the progress dashboard endpoint.
type ProgressSummary struct {
	ItemsTracked int `json:"items_tracked"`
	DueNow       int `json:"due_now"`
	TotalReviews int `json:"total_reviews"`
	TotalLapses  int `json:"total_lapses"`
	BestStreak   int `json:"best_streak"`
}

// ReviewStateStore defines the interface for review schedule persistence.
type ReviewStateStore interface {
	// Create saves a new review state for a learner/item pair.
	// Returns ErrReviewStateExists if the pair is already initialized.
	Create(ctx context.Context, state *domain.ReviewState) error

	// Get retrieves the review state for a learner/item pair without any row
	// locking. Returns ErrReviewStateNotFound if it does not exist.
	Get(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error)

	// GetForUpdate retrieves the review state with a row-level lock using
	// SELECT FOR UPDATE. Must be called within a transaction; use it whenever
	// the state will be updated so concurrent reviewers cannot lose updates.
	// Returns ErrReviewStateNotFound if it does not exist.
	GetForUpdate(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error)

	// Update modifies an existing review state.
	// Returns ErrReviewStateNotFound if the state does not exist.
	Update(ctx context.Context, state *domain.ReviewState) error

	// ListDue returns up to limit items due at or before now for the learner,
	// ascending by (next due time, item ID). Pagination is keyset-based: pass
	// the last row of the previous page as the cursor, or zero values for the
	// first page.
	ListDue(
		ctx context.Context,
		learnerID uuid.UUID,
		now time.Time,
		afterDue time.Time,
		afterItemID uuid.UUID,
		limit int,
	) ([]*DueItem, error)

	// GetProgressSummary aggregates the learner's review states.
	GetProgressSummary(ctx context.Context, learnerID uuid.UUID, now time.Time) (*ProgressSummary, error)

	// WithTx returns a new ReviewStateStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx *sql.Tx) ReviewStateStore
}
