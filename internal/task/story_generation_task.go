package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/generation"
)

// Common errors
var (
	ErrNilStoryAccessor = errors.New("story accessor cannot be nil")
	ErrNilGenerator     = errors.New("generator cannot be nil")
	ErrNilResultSaver   = errors.New("result saver cannot be nil")
	ErrEmptyStoryID     = errors.New("story ID cannot be empty")
)

// StoryAccessor is the slice of story service behavior this task needs.
type StoryAccessor interface {
	// GetStory retrieves a story by its ID.
	GetStory(ctx context.Context, storyID uuid.UUID) (*domain.Story, error)

	// UpdateStoryStatus moves a story through its processing lifecycle.
	UpdateStoryStatus(ctx context.Context, storyID uuid.UUID, status domain.StoryStatus) error
}

// ResultSaver persists the output of story processing: the extracted items
// and their initial review schedules, atomically.
type ResultSaver interface {
	SaveStoryResult(ctx context.Context, story *domain.Story, result *generation.StoryResult) error
}

// storyGenerationPayload is the serialized task data.
type storyGenerationPayload struct {
	StoryID uuid.UUID `json:"story_id"`
}

// StoryGenerationTask implements the Task interface for extracting
// vocabulary items from a learner's story.
type StoryGenerationTask struct {
	id        uuid.UUID
	storyID   uuid.UUID
	stories   StoryAccessor
	generator generation.Generator
	saver     ResultSaver
	logger    *slog.Logger
	status    TaskStatus
}

// NewStoryGenerationTask creates a pending story generation task.
func NewStoryGenerationTask(
	storyID uuid.UUID,
	stories StoryAccessor,
	generator generation.Generator,
	saver ResultSaver,
	logger *slog.Logger,
) (*StoryGenerationTask, error) {
	if stories == nil {
		return nil, ErrNilStoryAccessor
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if saver == nil {
		return nil, ErrNilResultSaver
	}
	if storyID == uuid.Nil {
		return nil, ErrEmptyStoryID
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StoryGenerationTask{
		id:        uuid.New(),
		storyID:   storyID,
		stories:   stories,
		generator: generator,
		saver:     saver,
		logger: logger.With(
			slog.String("task_type", TaskTypeStoryGeneration),
			slog.String("story_id", storyID.String())),
		status: TaskStatusPending,
	}, nil
}

// Ensure StoryGenerationTask implements Task
var _ Task = (*StoryGenerationTask)(nil)

// ID returns the task's unique identifier.
func (t *StoryGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *StoryGenerationTask) Type() string {
	return TaskTypeStoryGeneration
}

// Payload returns the task data as a byte slice.
func (t *StoryGenerationTask) Payload() []byte {
	data, err := json.Marshal(storyGenerationPayload{StoryID: t.storyID})
	if err != nil {
		t.logger.Error("failed to marshal task payload", slog.String("error", err.Error()))
		return []byte{}
	}
	return data
}

// Status returns the current task status.
func (t *StoryGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the full story processing lifecycle: load the story, mark it
// processing, generate study material, save it, and mark the story
// completed. Any failure marks the story failed before returning.
func (t *StoryGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting story generation task")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	story, err := t.stories.GetStory(ctx, t.storyID)
	if err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to retrieve story", slog.String("error", err.Error()))
		return fmt.Errorf("failed to retrieve story: %w", err)
	}

	// A completed story already has its items saved. Recovery can requeue a
	// task whose work committed before the runner recorded the task as done;
	// regenerating here would duplicate the vocabulary under new IDs.
	if story.Status == domain.StoryStatusCompleted {
		t.status = TaskStatusCompleted
		t.logger.Info("story already completed, skipping generation")
		return nil
	}

	if err := t.stories.UpdateStoryStatus(ctx, t.storyID, domain.StoryStatusProcessing); err != nil {
		t.status = TaskStatusFailed
		t.logger.Error("failed to mark story processing", slog.String("error", err.Error()))
		return fmt.Errorf("failed to mark story processing: %w", err)
	}

	result, err := t.generator.GenerateFromStory(ctx, story)
	if err != nil {
		t.failStory(ctx)
		t.logger.Error("failed to generate study material", slog.String("error", err.Error()))
		return fmt.Errorf("failed to generate study material: %w", err)
	}

	t.logger.Info("study material generated", slog.Int("item_count", len(result.Items)))

	if err := t.saver.SaveStoryResult(ctx, story, result); err != nil {
		t.failStory(ctx)
		t.logger.Error("failed to save generation result", slog.String("error", err.Error()))
		return fmt.Errorf("failed to save generation result: %w", err)
	}

	if err := t.stories.UpdateStoryStatus(ctx, t.storyID, domain.StoryStatusCompleted); err != nil {
		// The items are saved; log and report success.
		t.logger.Error("failed to mark story completed after saving items",
			slog.String("error", err.Error()))
	}

	t.status = TaskStatusCompleted
	t.logger.Info("story generation task completed", slog.Int("item_count", len(result.Items)))
	return nil
}

// failStory best-effort marks the story failed; the task error is what the
// caller sees.
func (t *StoryGenerationTask) failStory(ctx context.Context) {
	t.status = TaskStatusFailed
	if err := t.stories.UpdateStoryStatus(ctx, t.storyID, domain.StoryStatusFailed); err != nil {
		t.logger.Error("failed to mark story failed", slog.String("error", err.Error()))
	}
}
