package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/events"
)

// TaskSubmitter is the slice of TaskRunner behavior the event handler needs.
type TaskSubmitter interface {
	Submit(ctx context.Context, t Task) error
}

// StoryTaskEventHandler implements events.EventHandler by turning story
// generation events into submitted tasks. It is the glue between the story
// service (which emits events) and the task runner.
type StoryTaskEventHandler struct {
	factory *StoryGenerationTaskFactory
	runner  TaskSubmitter
	logger  *slog.Logger
}

// NewStoryTaskEventHandler creates an event handler backed by the given
// factory and runner.
func NewStoryTaskEventHandler(
	factory *StoryGenerationTaskFactory,
	runner TaskSubmitter,
	logger *slog.Logger,
) *StoryTaskEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryTaskEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With(slog.String("component", "story_task_event_handler")),
	}
}

// Ensure StoryTaskEventHandler implements events.EventHandler
var _ events.EventHandler = (*StoryTaskEventHandler)(nil)

// HandleEvent processes story generation events; events of other types are
// ignored so additional handlers can coexist on the same emitter.
func (h *StoryTaskEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != TaskTypeStoryGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var payload struct {
		StoryID string `json:"story_id"`
	}
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	storyID, err := uuid.Parse(payload.StoryID)
	if err != nil {
		return fmt.Errorf("invalid story ID: %w", err)
	}

	t, err := h.factory.CreateTask(storyID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("story generation task submitted",
		slog.String("task_id", t.ID().String()),
		slog.String("story_id", storyID.String()),
		slog.String("event_id", event.ID.String()))
	return nil
}
