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

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

const insertItemQuery = `
	INSERT INTO learning_items (id, english, hindi, audio_url, story_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Create implements store.ItemStore.Create
// Returns validation errors from the domain LearningItem if data is invalid.
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(
		ctx,
		insertItemQuery,
		item.ID,
		item.English,
		item.Hindi,
		nullString(item.AudioURL),
		nullUUID(item.StoryID),
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during item creation",
				slog.String("item_id", item.ID.String()),
				slog.String("story_id", item.StoryID.String()))
			return fmt.Errorf("%w: story with ID %s not found",
				store.ErrInvalidEntity, item.StoryID)
		}

		log.Error("failed to create learning item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	log.Info("learning item created successfully",
		slog.String("item_id", item.ID.String()))
	return nil
}

// CreateMultiple implements store.ItemStore.CreateMultiple
// It inserts all items one statement at a time. Run inside a transaction
// via WithTx when atomicity matters.
func (s *PostgresItemStore) CreateMultiple(ctx context.Context, items []*domain.LearningItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("item validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return err
		}
	}

	stmt, err := s.db.PrepareContext(ctx, insertItemQuery)
	if err != nil {
		log.Error("failed to prepare item insert statement",
			slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Error("failed to close prepared statement",
				slog.String("error", closeErr.Error()))
		}
	}()

	for _, item := range items {
		_, err := stmt.ExecContext(
			ctx,
			item.ID,
			item.English,
			item.Hindi,
			nullString(item.AudioURL),
			nullUUID(item.StoryID),
			item.CreatedAt,
			item.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to insert item in batch",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return err
		}
	}

	log.Info("learning items created successfully",
		slog.Int("count", len(items)))
	return nil
}

// GetByID implements store.ItemStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, english, hindi, audio_url, story_id, created_at, updated_at
		FROM learning_items
		WHERE id = $1
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learning item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get learning item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, err
	}

	return item, nil
}

// ListByStory implements store.ItemStore.ListByStory
// Returns an empty slice if the story has no items.
func (s *PostgresItemStore) ListByStory(ctx context.Context, storyID uuid.UUID) ([]*domain.LearningItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, english, hindi, audio_url, story_id, created_at, updated_at
		FROM learning_items
		WHERE story_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, storyID)
	if err != nil {
		log.Error("failed to query items by story",
			slog.String("error", err.Error()),
			slog.String("story_id", storyID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	items := []*domain.LearningItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan item row",
				slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return items, nil
}

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows so scan helpers work on both.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one learning_items row, converting nullable columns.
func scanItem(row rowScanner) (*domain.LearningItem, error) {
	var item domain.LearningItem
	var audioURL sql.NullString
	var storyID uuid.NullUUID

	err := row.Scan(
		&item.ID,
		&item.English,
		&item.Hindi,
		&audioURL,
		&storyID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if audioURL.Valid {
		item.AudioURL = audioURL.String
	}
	if storyID.Valid {
		item.StoryID = storyID.UUID
	}

	return &item, nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullUUID maps uuid.Nil to SQL NULL.
func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
