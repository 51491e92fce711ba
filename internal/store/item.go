package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// ItemStore defines the interface for learning item persistence.
type ItemStore interface {
	// Create saves a new learning item.
	// Returns validation errors from the domain LearningItem if data is invalid.
	Create(ctx context.Context, item *domain.LearningItem) error

	// CreateMultiple saves several learning items at once, typically the
	// output of story vocabulary extraction. Callers wanting atomicity run
	// this inside a transaction via WithTx.
	CreateMultiple(ctx context.Context, items []*domain.LearningItem) error

	// GetByID retrieves a learning item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)

	// ListByStory retrieves all items extracted from the given story,
	// ordered by creation time.
	ListByStory(ctx context.Context, storyID uuid.UUID) ([]*domain.LearningItem, error)

	// WithTx returns a new ItemStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx *sql.Tx) ItemStore
}
