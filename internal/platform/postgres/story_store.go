package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/platform/logger"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// PostgresStoryStore implements the store.StoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStoryStore creates a new PostgreSQL implementation of the
// StoryStore interface. If logger is nil, a default logger will be used.
func NewPostgresStoryStore(db store.DBTX, logger *slog.Logger) *PostgresStoryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "story_store")),
	}
}

// Ensure PostgresStoryStore implements store.StoryStore interface
var _ store.StoryStore = (*PostgresStoryStore)(nil)

// Create implements store.StoryStore.Create
// Returns store.ErrInvalidEntity if the owning learner does not exist.
func (s *PostgresStoryStore) Create(ctx context.Context, story *domain.Story) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := story.Validate(); err != nil {
		log.Warn("story validation failed during create",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}

	query := `
		INSERT INTO stories (id, learner_id, title, english_text, hindi_text, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		story.ID,
		story.LearnerID,
		story.Title,
		story.EnglishText,
		nullString(story.HindiText),
		story.Status,
		story.CreatedAt,
		story.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during story creation",
				slog.String("story_id", story.ID.String()),
				slog.String("learner_id", story.LearnerID.String()))
			return fmt.Errorf("%w: learner with ID %s not found",
				store.ErrInvalidEntity, story.LearnerID)
		}

		log.Error("failed to create story",
			slog.String("error", err.Error()),
			slog.String("story_id", story.ID.String()))
		return err
	}

	log.Info("story created successfully",
		slog.String("story_id", story.ID.String()),
		slog.String("learner_id", story.LearnerID.String()),
		slog.String("status", string(story.Status)))
	return nil
}

// GetByID implements store.StoryStore.GetByID
// Returns store.ErrStoryNotFound if the story does not exist.
func (s *PostgresStoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, learner_id, title, english_text, hindi_text, status, created_at, updated_at
		FROM stories
		WHERE id = $1
	`

	story, err := scanStory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("story not found", slog.String("story_id", id.String()))
			return nil, store.ErrStoryNotFound
		}
		log.Error("failed to get story by ID",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return nil, err
	}

	return story, nil
}

// ListByLearner implements store.StoryStore.ListByLearner
// Returns an empty slice if the learner has no stories.
func (s *PostgresStoryStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	limit, offset int,
) ([]*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, learner_id, title, english_text, hindi_text, status, created_at, updated_at
		FROM stories
		WHERE learner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, limit, offset)
	if err != nil {
		log.Error("failed to query stories by learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	stories := []*domain.Story{}
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			log.Error("failed to scan story row",
				slog.String("error", err.Error()))
			return nil, err
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return stories, nil
}

// UpdateStatus implements store.StoryStore.UpdateStatus
// Returns store.ErrStoryNotFound if the story does not exist.
func (s *PostgresStoryStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StoryStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch status {
	case domain.StoryStatusPending, domain.StoryStatusProcessing,
		domain.StoryStatusCompleted, domain.StoryStatusFailed:
	default:
		return domain.ErrInvalidStoryStatus
	}

	query := `
		UPDATE stories
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update story status",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()),
			slog.String("status", string(status)))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("story not found for status update",
			slog.String("story_id", id.String()))
		return store.ErrStoryNotFound
	}

	log.Info("story status updated successfully",
		slog.String("story_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// SetHindiText implements store.StoryStore.SetHindiText
// Returns store.ErrStoryNotFound if the story does not exist.
func (s *PostgresStoryStore) SetHindiText(ctx context.Context, id uuid.UUID, hindiText string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE stories
		SET hindi_text = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, nullString(hindiText), time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to set story hindi text",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("story_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("story not found for translation update",
			slog.String("story_id", id.String()))
		return store.ErrStoryNotFound
	}

	return nil
}

// WithTx implements store.StoryStore.WithTx
func (s *PostgresStoryStore) WithTx(tx *sql.Tx) store.StoryStore {
	return &PostgresStoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanStory reads one stories row, converting nullable columns.
func scanStory(row rowScanner) (*domain.Story, error) {
	var story domain.Story
	var hindiText sql.NullString
	var status string

	err := row.Scan(
		&story.ID,
		&story.LearnerID,
		&story.Title,
		&story.EnglishText,
		&hindiText,
		&status,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if hindiText.Valid {
		story.HindiText = hindiText.String
	}
	story.Status = domain.StoryStatus(status)

	return &story, nil
}
