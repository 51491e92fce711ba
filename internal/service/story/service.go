// Package story implements the learner-facing story workflow: submitting a
// bilingual passage, tracking its processing status, and persisting the
// vocabulary extracted from it.
package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/events"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
	"github.com/anwarji786/EnglishLearningApp/internal/task"
)

// Service-level errors exposed to API handlers.
var (
	// ErrStoryNotFound indicates the story does not exist or is not owned
	// by the requesting learner.
	ErrStoryNotFound = errors.New("story not found")

	// ErrLearnerNotFound indicates the owning learner does not exist.
	ErrLearnerNotFound = errors.New("learner not found")
)

// storyGenerationPayload is the event payload that requests background
// vocabulary extraction for a story.
type storyGenerationPayload struct {
	StoryID uuid.UUID `json:"story_id"`
}

// StoryService defines the story operations exposed to API handlers.
type StoryService interface {
	// CreateStory saves a new pending story and requests background
	// vocabulary extraction for it.
	CreateStory(ctx context.Context, learnerID uuid.UUID, title, englishText, hindiText string) (*domain.Story, error)

	// GetStory retrieves a story owned by the learner. Returns
	// ErrStoryNotFound for missing stories and for stories owned by
	// someone else, so existence is never leaked across accounts.
	GetStory(ctx context.Context, learnerID, storyID uuid.UUID) (*domain.Story, error)

	// ListStories retrieves the learner's stories, newest first.
	ListStories(ctx context.Context, learnerID uuid.UUID, limit, offset int) ([]*domain.Story, error)

	// GetStoryItems retrieves the vocabulary extracted from a story owned
	// by the learner.
	GetStoryItems(ctx context.Context, learnerID, storyID uuid.UUID) ([]*domain.LearningItem, error)
}

type storyService struct {
	stories store.StoryStore
	items   store.ItemStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ StoryService = (*storyService)(nil)

// NewStoryService creates a StoryService with the given dependencies.
func NewStoryService(
	stories store.StoryStore,
	items store.ItemStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (StoryService, error) {
	if stories == nil {
		return nil, errors.New("story store cannot be nil")
	}
	if items == nil {
		return nil, errors.New("item store cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("event emitter cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &storyService{
		stories: stories,
		items:   items,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "story_service")),
	}, nil
}

// CreateStory implements the StoryService interface. The story is saved as
// pending; a task request event hands it to the background worker for
// vocabulary extraction.
func (s *storyService) CreateStory(
	ctx context.Context,
	learnerID uuid.UUID,
	title, englishText, hindiText string,
) (*domain.Story, error) {
	story, err := domain.NewStory(learnerID, title, englishText, hindiText)
	if err != nil {
		return nil, err
	}

	if err := s.stories.Create(ctx, story); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrLearnerNotFound
		}
		return nil, fmt.Errorf("saving story: %w", err)
	}

	event, err := events.NewTaskRequestEvent(
		task.TaskTypeStoryGeneration,
		storyGenerationPayload{StoryID: story.ID},
	)
	if err != nil {
		// The story is saved; the stuck-story sweep can pick it up later.
		s.logger.Error("failed to build generation request event",
			slog.String("story_id", story.ID.String()),
			slog.String("error", err.Error()))
		return story, nil
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to request story generation",
			slog.String("story_id", story.ID.String()),
			slog.String("error", err.Error()))
		return story, nil
	}

	s.logger.Info("story submitted for generation",
		slog.String("story_id", story.ID.String()),
		slog.String("learner_id", learnerID.String()))

	return story, nil
}

// GetStory implements the StoryService interface.
func (s *storyService) GetStory(
	ctx context.Context,
	learnerID, storyID uuid.UUID,
) (*domain.Story, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, store.ErrStoryNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("loading story: %w", err)
	}

	if story.LearnerID != learnerID {
		return nil, ErrStoryNotFound
	}

	return story, nil
}

// ListStories implements the StoryService interface.
func (s *storyService) ListStories(
	ctx context.Context,
	learnerID uuid.UUID,
	limit, offset int,
) ([]*domain.Story, error) {
	stories, err := s.stories.ListByLearner(ctx, learnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}
	return stories, nil
}

// GetStoryItems implements the StoryService interface.
func (s *storyService) GetStoryItems(
	ctx context.Context,
	learnerID, storyID uuid.UUID,
) ([]*domain.LearningItem, error) {
	// Ownership check first; items are only reachable through owned stories.
	if _, err := s.GetStory(ctx, learnerID, storyID); err != nil {
		return nil, err
	}

	items, err := s.items.ListByStory(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("listing story items: %w", err)
	}
	return items, nil
}
