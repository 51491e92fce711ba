package task

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarji786/EnglishLearningApp/internal/events"
)

// recordingSubmitter captures submitted tasks.
type recordingSubmitter struct {
	submitted []Task
	err       error
}

func (s *recordingSubmitter) Submit(_ context.Context, t Task) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, t)
	return nil
}

func newTestFactory() *StoryGenerationTaskFactory {
	return NewStoryGenerationTaskFactory(
		&fakeStoryAccessor{}, &fakeGenerator{}, &fakeResultSaver{}, discardLogger())
}

func TestStoryTaskEventHandler(t *testing.T) {
	t.Run("submits task for story generation event", func(t *testing.T) {
		submitter := &recordingSubmitter{}
		handler := NewStoryTaskEventHandler(newTestFactory(), submitter, discardLogger())

		storyID := uuid.New()
		event, err := events.NewTaskRequestEvent(TaskTypeStoryGeneration,
			map[string]string{"story_id": storyID.String()})
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		require.Len(t, submitter.submitted, 1)
		assert.Equal(t, TaskTypeStoryGeneration, submitter.submitted[0].Type())
	})

	t.Run("ignores other event types", func(t *testing.T) {
		submitter := &recordingSubmitter{}
		handler := NewStoryTaskEventHandler(newTestFactory(), submitter, discardLogger())

		event, err := events.NewTaskRequestEvent("something_else", nil)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, submitter.submitted)
	})

	t.Run("rejects malformed story ID", func(t *testing.T) {
		submitter := &recordingSubmitter{}
		handler := NewStoryTaskEventHandler(newTestFactory(), submitter, discardLogger())

		event, err := events.NewTaskRequestEvent(TaskTypeStoryGeneration,
			map[string]string{"story_id": "not-a-uuid"})
		require.NoError(t, err)

		assert.Error(t, handler.HandleEvent(context.Background(), event))
	})

	t.Run("propagates submit failure", func(t *testing.T) {
		submitter := &recordingSubmitter{err: assert.AnError}
		handler := NewStoryTaskEventHandler(newTestFactory(), submitter, discardLogger())

		event, err := events.NewTaskRequestEvent(TaskTypeStoryGeneration,
			map[string]string{"story_id": uuid.New().String()})
		require.NoError(t, err)

		assert.ErrorIs(t, handler.HandleEvent(context.Background(), event), assert.AnError)
	})
}
