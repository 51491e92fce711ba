package story

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/domain/srs"
	"github.com/anwarji786/EnglishLearningApp/internal/generation"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
	"github.com/anwarji786/EnglishLearningApp/internal/task"
)

// Processor is the background-task side of the story workflow. It gives the
// generation task access to stories and persists extraction results: the
// items, their initial review schedules, and any generated translation, all
// in one transaction.
type Processor struct {
	stories      store.StoryStore
	items        store.ItemStore
	reviewStates store.ReviewStateStore
	scheduler    srs.Service
	runTx        store.TxRunner
	logger       *slog.Logger

	timeFunc func() time.Time
}

var (
	_ task.StoryAccessor = (*Processor)(nil)
	_ task.ResultSaver   = (*Processor)(nil)
)

// NewProcessor creates a Processor with the given dependencies.
func NewProcessor(
	stories store.StoryStore,
	items store.ItemStore,
	reviewStates store.ReviewStateStore,
	scheduler srs.Service,
	runTx store.TxRunner,
	logger *slog.Logger,
) (*Processor, error) {
	if stories == nil {
		return nil, errors.New("story store cannot be nil")
	}
	if items == nil {
		return nil, errors.New("item store cannot be nil")
	}
	if reviewStates == nil {
		return nil, errors.New("review state store cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if runTx == nil {
		return nil, errors.New("transaction runner cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Processor{
		stories:      stories,
		items:        items,
		reviewStates: reviewStates,
		scheduler:    scheduler,
		runTx:        runTx,
		logger:       logger.With(slog.String("component", "story_processor")),
		timeFunc:     time.Now,
	}, nil
}

// GetStory implements the task.StoryAccessor interface.
func (p *Processor) GetStory(ctx context.Context, storyID uuid.UUID) (*domain.Story, error) {
	return p.stories.GetByID(ctx, storyID)
}

// UpdateStoryStatus implements the task.StoryAccessor interface.
func (p *Processor) UpdateStoryStatus(
	ctx context.Context,
	storyID uuid.UUID,
	status domain.StoryStatus,
) error {
	return p.stories.UpdateStatus(ctx, storyID, status)
}

// SaveStoryResult implements the task.ResultSaver interface. Items, their
// review schedules, and the stored translation commit atomically so a crash
// mid-save never leaves a story with unscheduled vocabulary.
func (p *Processor) SaveStoryResult(
	ctx context.Context,
	story *domain.Story,
	result *generation.StoryResult,
) error {
	if story == nil {
		return errors.New("story cannot be nil")
	}
	if result == nil || len(result.Items) == 0 {
		return errors.New("generation result has no items")
	}

	now := p.timeFunc().UTC()

	err := p.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		items := p.items.WithTx(tx)
		states := p.reviewStates.WithTx(tx)
		stories := p.stories.WithTx(tx)

		if err := items.CreateMultiple(ctx, result.Items); err != nil {
			return fmt.Errorf("saving items: %w", err)
		}

		for _, item := range result.Items {
			state, err := p.scheduler.NewReviewState(story.LearnerID, item.ID, now)
			if err != nil {
				return fmt.Errorf("building review state for item %s: %w", item.ID, err)
			}
			if err := states.Create(ctx, state); err != nil {
				// Re-running a partially failed generation must not
				// fail on items scheduled the first time around.
				if errors.Is(err, store.ErrReviewStateExists) {
					continue
				}
				return fmt.Errorf("saving review state for item %s: %w", item.ID, err)
			}
		}

		if story.HindiText == "" && result.HindiText != "" {
			if err := stories.SetHindiText(ctx, story.ID, result.HindiText); err != nil {
				return fmt.Errorf("saving translation: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	p.logger.Info("story result saved",
		slog.String("story_id", story.ID.String()),
		slog.Int("item_count", len(result.Items)))

	return nil
}
