package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/platform/logger"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// PostgresReviewStateStore implements the store.ReviewStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a new PostgreSQL implementation of the
// ReviewStateStore interface. If logger is nil, a default logger will be used.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure PostgresReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

const reviewStateColumns = `
	learner_id, item_id, interval_days, ease_factor, consecutive_correct,
	lapse_count, last_reviewed_at, next_review_at, review_count,
	created_at, updated_at
`

// Create implements store.ReviewStateStore.Create
// Returns store.ErrReviewStateExists if the learner/item pair already has a
// schedule, and store.ErrInvalidEntity if the learner or item is missing.
func (s *PostgresReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	query := `
		INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.LearnerID,
		state.ItemID,
		state.Interval,
		state.EaseFactor,
		state.ConsecutiveCorrect,
		state.LapseCount,
		nullTime(state.LastReviewedAt),
		state.NextReviewAt,
		state.ReviewCount,
		state.CreatedAt,
		state.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			log.Debug("review state already initialized",
				slog.String("learner_id", state.LearnerID.String()),
				slog.String("item_id", state.ItemID.String()))
			return store.ErrReviewStateExists
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during review state creation",
				slog.String("learner_id", state.LearnerID.String()),
				slog.String("item_id", state.ItemID.String()))
			return store.ErrInvalidEntity
		}

		log.Error("failed to create review state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	log.Info("review state created successfully",
		slog.String("learner_id", state.LearnerID.String()),
		slog.String("item_id", state.ItemID.String()))
	return nil
}

// Get implements store.ReviewStateStore.Get
// Returns store.ErrReviewStateNotFound if the pair has no schedule.
func (s *PostgresReviewStateStore) Get(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	return s.get(ctx, learnerID, itemID, false)
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
// The row lock only has effect when the store was obtained via WithTx.
func (s *PostgresReviewStateStore) GetForUpdate(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	return s.get(ctx, learnerID, itemID, true)
}

func (s *PostgresReviewStateStore) get(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	forUpdate bool,
) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE learner_id = $1 AND item_id = $2
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	state, err := scanReviewState(s.db.QueryRowContext(ctx, query, learnerID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review state not found",
				slog.String("learner_id", learnerID.String()),
				slog.String("item_id", itemID.String()))
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("item_id", itemID.String()))
		return nil, err
	}

	return state, nil
}

// Update implements store.ReviewStateStore.Update
// Returns store.ErrReviewStateNotFound if the pair has no schedule.
func (s *PostgresReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during update",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	query := `
		UPDATE review_states
		SET interval_days = $1, ease_factor = $2, consecutive_correct = $3,
			lapse_count = $4, last_reviewed_at = $5, next_review_at = $6,
			review_count = $7, updated_at = $8
		WHERE learner_id = $9 AND item_id = $10
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		state.Interval,
		state.EaseFactor,
		state.ConsecutiveCorrect,
		state.LapseCount,
		nullTime(state.LastReviewedAt),
		state.NextReviewAt,
		state.ReviewCount,
		state.UpdatedAt,
		state.LearnerID,
		state.ItemID,
	)

	if err != nil {
		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("review state not found for update",
			slog.String("learner_id", state.LearnerID.String()),
			slog.String("item_id", state.ItemID.String()))
		return store.ErrReviewStateNotFound
	}

	log.Debug("review state updated successfully",
		slog.String("learner_id", state.LearnerID.String()),
		slog.String("item_id", state.ItemID.String()),
		slog.Int("interval_days", state.Interval))
	return nil
}

// ListDue implements store.ReviewStateStore.ListDue
// Ordering is (next_review_at, item_id) ascending so pagination is stable
// even when many items share a due time. The cursor compares as a row value,
// matching the composite index on the same columns.
func (s *PostgresReviewStateStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
	afterDue time.Time,
	afterItemID uuid.UUID,
	limit int,
) ([]*store.DueItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT i.id, i.english, i.hindi, i.audio_url, i.story_id,
			i.created_at, i.updated_at, r.next_review_at
		FROM review_states r
		JOIN learning_items i ON i.id = r.item_id
		WHERE r.learner_id = $1
			AND r.next_review_at <= $2
			AND (r.next_review_at, r.item_id) > ($3, $4)
		ORDER BY r.next_review_at ASC, r.item_id ASC
		LIMIT $5
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, now, afterDue, afterItemID, limit)
	if err != nil {
		log.Error("failed to query due items",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	due := []*store.DueItem{}
	for rows.Next() {
		var item domain.LearningItem
		var audioURL sql.NullString
		var storyID uuid.NullUUID
		var nextReviewAt time.Time

		err := rows.Scan(
			&item.ID,
			&item.English,
			&item.Hindi,
			&audioURL,
			&storyID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&nextReviewAt,
		)
		if err != nil {
			log.Error("failed to scan due item row",
				slog.String("error", err.Error()))
			return nil, err
		}

		if audioURL.Valid {
			item.AudioURL = audioURL.String
		}
		if storyID.Valid {
			item.StoryID = storyID.UUID
		}

		due = append(due, &store.DueItem{Item: &item, NextReviewAt: nextReviewAt})
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed due items",
		slog.String("learner_id", learnerID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// GetProgressSummary implements store.ReviewStateStore.GetProgressSummary
func (s *PostgresReviewStateStore) GetProgressSummary(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
) (*store.ProgressSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE next_review_at <= $2),
			COALESCE(SUM(review_count), 0),
			COALESCE(SUM(lapse_count), 0),
			COALESCE(MAX(consecutive_correct), 0)
		FROM review_states
		WHERE learner_id = $1
	`

	var summary store.ProgressSummary
	err := s.db.QueryRowContext(ctx, query, learnerID, now).Scan(
		&summary.ItemsTracked,
		&summary.DueNow,
		&summary.TotalReviews,
		&summary.TotalLapses,
		&summary.BestStreak,
	)
	if err != nil {
		log.Error("failed to aggregate progress summary",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}

	return &summary, nil
}

// WithTx implements store.ReviewStateStore.WithTx
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanReviewState reads one review_states row.
func scanReviewState(row rowScanner) (*domain.ReviewState, error) {
	var state domain.ReviewState
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&state.LearnerID,
		&state.ItemID,
		&state.Interval,
		&state.EaseFactor,
		&state.ConsecutiveCorrect,
		&state.LapseCount,
		&lastReviewedAt,
		&state.NextReviewAt,
		&state.ReviewCount,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		state.LastReviewedAt = lastReviewedAt.Time
	}

	return &state, nil
}

// nullTime maps the zero time to SQL NULL.
func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
