package story

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/events"
	"github.com/anwarji786/EnglishLearningApp/internal/mocks"
	"github.com/anwarji786/EnglishLearningApp/internal/task"
)

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	events []*events.TaskRequestEvent
	err    error
}

func (e *recordingEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (StoryService, *mocks.MockStoryStore, *mocks.MockItemStore, *recordingEmitter) {
	t.Helper()

	stories := mocks.NewMockStoryStore()
	items := mocks.NewMockItemStore()
	emitter := &recordingEmitter{}

	svc, err := NewStoryService(stories, items, emitter, discardLogger())
	require.NoError(t, err)
	return svc, stories, items, emitter
}

func TestCreateStory(t *testing.T) {
	svc, stories, _, emitter := newTestService(t)
	learnerID := uuid.New()

	story, err := svc.CreateStory(context.Background(), learnerID, "Morning Walk", "I walk to the market.", "")
	require.NoError(t, err)

	assert.Equal(t, domain.StoryStatusPending, story.Status)
	assert.Contains(t, stories.Stories, story.ID, "story was not saved")

	require.Len(t, emitter.events, 1)
	event := emitter.events[0]
	assert.Equal(t, task.TaskTypeStoryGeneration, event.Type)

	var payload storyGenerationPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, story.ID, payload.StoryID)
}

func TestCreateStoryValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.CreateStory(context.Background(), uuid.New(), "", "text", "")
	assert.ErrorIs(t, err, domain.ErrStoryTitleEmpty)

	_, err = svc.CreateStory(context.Background(), uuid.New(), "Title", "", "")
	assert.ErrorIs(t, err, domain.ErrStoryTextEmpty)
}

func TestCreateStoryEmitFailure(t *testing.T) {
	svc, stories, _, emitter := newTestService(t)
	emitter.err = errors.New("queue full")

	story, err := svc.CreateStory(context.Background(), uuid.New(), "Title", "Some text.", "")
	require.NoError(t, err, "story must be kept despite emit failure")
	assert.Contains(t, stories.Stories, story.ID, "story was not saved")
	assert.Equal(t, domain.StoryStatusPending, story.Status)
}

func TestGetStoryOwnership(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	owner := uuid.New()

	story, err := svc.CreateStory(context.Background(), owner, "Title", "Some text.", "")
	require.NoError(t, err)

	got, err := svc.GetStory(context.Background(), owner, story.ID)
	require.NoError(t, err)
	assert.Equal(t, story.ID, got.ID)

	_, err = svc.GetStory(context.Background(), uuid.New(), story.ID)
	assert.ErrorIs(t, err, ErrStoryNotFound, "non-owner must not see the story")

	_, err = svc.GetStory(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, ErrStoryNotFound)
}

func TestListStories(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	learnerID := uuid.New()

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := svc.CreateStory(context.Background(), learnerID, title, "Some text.", "")
		require.NoError(t, err)
	}
	_, err := svc.CreateStory(context.Background(), uuid.New(), "Other", "Some text.", "")
	require.NoError(t, err)

	stories, err := svc.ListStories(context.Background(), learnerID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stories, 3)
}

func TestGetStoryItems(t *testing.T) {
	svc, _, items, _ := newTestService(t)
	learnerID := uuid.New()

	story, err := svc.CreateStory(context.Background(), learnerID, "Title", "The water is cold.", "")
	require.NoError(t, err)

	item, err := domain.NewLearningItem("water", "पानी", "", story.ID)
	require.NoError(t, err)
	require.NoError(t, items.Create(context.Background(), item))

	got, err := svc.GetStoryItems(context.Background(), learnerID, story.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, item.ID, got[0].ID)

	_, err = svc.GetStoryItems(context.Background(), uuid.New(), story.ID)
	assert.ErrorIs(t, err, ErrStoryNotFound, "non-owner must not see the story's items")
}
