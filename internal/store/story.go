package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// StoryStore defines the interface for bilingual story persistence.
type StoryStore interface {
	// Create saves a new story.
	// Returns ErrInvalidEntity if the owning learner does not exist.
	Create(ctx context.Context, story *domain.Story) error

	// GetByID retrieves a story by its unique ID.
	// Returns ErrStoryNotFound if the story does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error)

	// ListByLearner retrieves the learner's stories, newest first.
	ListByLearner(ctx context.Context, learnerID uuid.UUID, limit, offset int) ([]*domain.Story, error)

	// UpdateStatus moves a story through its processing lifecycle.
	// Returns ErrStoryNotFound if the story does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoryStatus) error

	// SetHindiText stores a generated translation for a story submitted
	// without one. Returns ErrStoryNotFound if the story does not exist.
	SetHindiText(ctx context.Context, id uuid.UUID, hindiText string) error

	// WithTx returns a new StoryStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx *sql.Tx) StoryStore
}
