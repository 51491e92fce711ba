package task

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/generation"
)

// StoryGenerationTaskFactory builds StoryGenerationTasks with their
// dependencies bound. It serves both fresh submissions (from events) and
// recovery of persisted tasks.
type StoryGenerationTaskFactory struct {
	stories   StoryAccessor
	generator generation.Generator
	saver     ResultSaver
	logger    *slog.Logger
}

// NewStoryGenerationTaskFactory creates a factory for story generation tasks.
func NewStoryGenerationTaskFactory(
	stories StoryAccessor,
	generator generation.Generator,
	saver ResultSaver,
	logger *slog.Logger,
) *StoryGenerationTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryGenerationTaskFactory{
		stories:   stories,
		generator: generator,
		saver:     saver,
		logger:    logger,
	}
}

// Ensure StoryGenerationTaskFactory implements TaskFactory
var _ TaskFactory = (*StoryGenerationTaskFactory)(nil)

// CreateTask builds a new task for the given story.
func (f *StoryGenerationTaskFactory) CreateTask(storyID uuid.UUID) (*StoryGenerationTask, error) {
	return NewStoryGenerationTask(storyID, f.stories, f.generator, f.saver, f.logger)
}

// CreateTaskWithID implements TaskFactory.CreateTaskWithID
// It rebuilds a recovered task, preserving its persisted identity.
func (f *StoryGenerationTaskFactory) CreateTaskWithID(id uuid.UUID, payload []byte) (Task, error) {
	var p storyGenerationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal story generation payload: %w", err)
	}

	t, err := NewStoryGenerationTask(p.StoryID, f.stories, f.generator, f.saver, f.logger)
	if err != nil {
		return nil, err
	}
	t.id = id
	return t, nil
}
