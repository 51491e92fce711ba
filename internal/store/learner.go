package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// LearnerStore defines the interface for learner account persistence.
type LearnerStore interface {
	// Create saves a new learner. The learner's password must already be
	// hashed; plaintext passwords are never stored.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, learner *domain.Learner) error

	// GetByID retrieves a learner by their unique ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error)

	// GetByEmail retrieves a learner by email address.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Learner, error)

	// WithTx returns a new LearnerStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx *sql.Tx) LearnerStore
}
