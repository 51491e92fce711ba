package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/platform/logger"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// PostgresLearnerStore implements the store.LearnerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearnerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLearnerStore creates a new PostgreSQL implementation of the
// LearnerStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLearnerStore(db store.DBTX, logger *slog.Logger) *PostgresLearnerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStore{
		db:     db,
		logger: logger.With(slog.String("component", "learner_store")),
	}
}

// Ensure PostgresLearnerStore implements store.LearnerStore interface
var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// Create implements store.LearnerStore.Create
// It saves a new learner to the database. The learner must carry a hashed
// password; the plaintext field is never written.
// Returns store.ErrEmailExists if the email is already registered.
func (s *PostgresLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := learner.Validate(); err != nil {
		log.Warn("learner validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return err
	}

	if learner.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := `
		INSERT INTO learners (id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		learner.ID,
		learner.Email,
		learner.HashedPassword,
		learner.CreatedAt,
		learner.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			log.Warn("duplicate email during learner creation",
				slog.String("learner_id", learner.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return err
	}

	log.Info("learner created successfully",
		slog.String("learner_id", learner.ID.String()))
	return nil
}

// GetByID implements store.LearnerStore.GetByID
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM learners
		WHERE id = $1
	`

	var learner domain.Learner
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&learner.ID,
		&learner.Email,
		&learner.HashedPassword,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner not found", slog.String("learner_id", id.String()))
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by ID",
			slog.String("error", err.Error()),
			slog.String("learner_id", id.String()))
		return nil, err
	}

	return &learner, nil
}

// GetByEmail implements store.LearnerStore.GetByEmail
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if email == "" {
		return nil, fmt.Errorf("%w: empty email", store.ErrLearnerNotFound)
	}

	query := `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM learners
		WHERE email = $1
	`

	var learner domain.Learner
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&learner.ID,
		&learner.Email,
		&learner.HashedPassword,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Email deliberately kept out of the log.
			log.Debug("learner not found by email")
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by email",
			slog.String("error", err.Error()))
		return nil, err
	}

	return &learner, nil
}

// WithTx implements store.LearnerStore.WithTx
// It returns a new LearnerStore that runs all operations on the transaction.
func (s *PostgresLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return &PostgresLearnerStore{
		db:     tx,
		logger: s.logger,
	}
}
