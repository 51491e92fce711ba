package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarji786/EnglishLearningApp/internal/api/shared"
	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/service/story"
)

// mockStoryService implements story.StoryService for handler tests.
type mockStoryService struct {
	createStoryFn   func(ctx context.Context, learnerID uuid.UUID, title, englishText, hindiText string) (*domain.Story, error)
	getStoryFn      func(ctx context.Context, learnerID, storyID uuid.UUID) (*domain.Story, error)
	listStoriesFn   func(ctx context.Context, learnerID uuid.UUID, limit, offset int) ([]*domain.Story, error)
	getStoryItemsFn func(ctx context.Context, learnerID, storyID uuid.UUID) ([]*domain.LearningItem, error)
}

var _ story.StoryService = (*mockStoryService)(nil)

func (m *mockStoryService) CreateStory(
	ctx context.Context,
	learnerID uuid.UUID,
	title, englishText, hindiText string,
) (*domain.Story, error) {
	if m.createStoryFn != nil {
		return m.createStoryFn(ctx, learnerID, title, englishText, hindiText)
	}
	return nil, errors.New("CreateStory not mocked")
}

func (m *mockStoryService) GetStory(
	ctx context.Context,
	learnerID, storyID uuid.UUID,
) (*domain.Story, error) {
	if m.getStoryFn != nil {
		return m.getStoryFn(ctx, learnerID, storyID)
	}
	return nil, errors.New("GetStory not mocked")
}

func (m *mockStoryService) ListStories(
	ctx context.Context,
	learnerID uuid.UUID,
	limit, offset int,
) ([]*domain.Story, error) {
	if m.listStoriesFn != nil {
		return m.listStoriesFn(ctx, learnerID, limit, offset)
	}
	return nil, errors.New("ListStories not mocked")
}

func (m *mockStoryService) GetStoryItems(
	ctx context.Context,
	learnerID, storyID uuid.UUID,
) ([]*domain.LearningItem, error) {
	if m.getStoryItemsFn != nil {
		return m.getStoryItemsFn(ctx, learnerID, storyID)
	}
	return nil, errors.New("GetStoryItems not mocked")
}

func TestCreateStoryHandler(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()

	tests := []struct {
		name                string
		requestLearnerID    uuid.UUID
		requestBody         []byte
		mockCreateStoryFn   func(ctx context.Context, gotLearnerID uuid.UUID, title, englishText, hindiText string) (*domain.Story, error)
		expectedStatusCode  int
		expectedErrContains string
	}{
		{
			name:             "Success",
			requestLearnerID: learnerID,
			requestBody:      []byte(`{"title": "At the Market", "english_text": "The vendor sells mangoes.", "hindi_text": "विक्रेता आम बेचता है।"}`),
			mockCreateStoryFn: func(ctx context.Context, gotLearnerID uuid.UUID, title, englishText, hindiText string) (*domain.Story, error) {
				assert.Equal(t, learnerID, gotLearnerID)
				assert.Equal(t, "At the Market", title)
				assert.Equal(t, "The vendor sells mangoes.", englishText)
				return domain.NewStory(gotLearnerID, title, englishText, hindiText)
			},
			expectedStatusCode: http.StatusAccepted,
		},
		{
			name:                "Missing Title",
			requestLearnerID:    learnerID,
			requestBody:         []byte(`{"english_text": "The vendor sells mangoes."}`),
			expectedStatusCode:  http.StatusBadRequest,
			expectedErrContains: "Validation",
		},
		{
			name:                "Missing English Text",
			requestLearnerID:    learnerID,
			requestBody:         []byte(`{"title": "At the Market"}`),
			expectedStatusCode:  http.StatusBadRequest,
			expectedErrContains: "Validation",
		},
		{
			name:                "Malformed JSON",
			requestLearnerID:    learnerID,
			requestBody:         []byte(`{"title": `),
			expectedStatusCode:  http.StatusBadRequest,
			expectedErrContains: "Invalid request format",
		},
		{
			name:             "Service Failure",
			requestLearnerID: learnerID,
			requestBody:      []byte(`{"title": "At the Market", "english_text": "The vendor sells mangoes."}`),
			mockCreateStoryFn: func(ctx context.Context, gotLearnerID uuid.UUID, title, englishText, hindiText string) (*domain.Story, error) {
				return nil, errors.New("write failed")
			},
			expectedStatusCode:  http.StatusInternalServerError,
			expectedErrContains: "unexpected error",
		},
		{
			name:                "Missing Learner ID",
			requestLearnerID:    uuid.Nil,
			requestBody:         []byte(`{"title": "At the Market", "english_text": "The vendor sells mangoes."}`),
			expectedStatusCode:  http.StatusUnauthorized,
			expectedErrContains: "Authentication required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewStoryHandler(&mockStoryService{createStoryFn: tt.mockCreateStoryFn})

			req := newReviewRequest(t,
				http.MethodPost, "/stories", "", tt.requestLearnerID, tt.requestBody)
			rr := httptest.NewRecorder()

			handler.CreateStory(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)

			if tt.expectedStatusCode == http.StatusAccepted {
				var created domain.Story
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
				assert.Equal(t, domain.StoryStatusPending, created.Status)
				assert.Equal(t, "At the Market", created.Title)
			} else if tt.expectedErrContains != "" {
				var errResp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
				assert.Contains(t, errResp.Error, tt.expectedErrContains)
			}
		})
	}
}

func TestGetStoryHandler(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	storyID := uuid.New()

	tests := []struct {
		name                string
		requestStoryID      string
		mockGetStoryFn      func(ctx context.Context, gotLearnerID, gotStoryID uuid.UUID) (*domain.Story, error)
		expectedStatusCode  int
		expectedErrContains string
	}{
		{
			name:           "Success",
			requestStoryID: storyID.String(),
			mockGetStoryFn: func(ctx context.Context, gotLearnerID, gotStoryID uuid.UUID) (*domain.Story, error) {
				assert.Equal(t, learnerID, gotLearnerID)
				assert.Equal(t, storyID, gotStoryID)
				return domain.NewStory(gotLearnerID, "At the Market", "The vendor sells mangoes.", "")
			},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:           "Not Found",
			requestStoryID: storyID.String(),
			mockGetStoryFn: func(ctx context.Context, gotLearnerID, gotStoryID uuid.UUID) (*domain.Story, error) {
				return nil, story.ErrStoryNotFound
			},
			expectedStatusCode:  http.StatusNotFound,
			expectedErrContains: "Story not found",
		},
		{
			name:                "Invalid Story ID",
			requestStoryID:      "not-a-uuid",
			expectedStatusCode:  http.StatusBadRequest,
			expectedErrContains: "not a valid UUID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewStoryHandler(&mockStoryService{getStoryFn: tt.mockGetStoryFn})

			req := newReviewRequest(t,
				http.MethodGet, "/stories/"+tt.requestStoryID,
				tt.requestStoryID, learnerID, nil)
			rr := httptest.NewRecorder()

			handler.GetStory(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)
			if tt.expectedErrContains != "" {
				var errResp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
				assert.Contains(t, errResp.Error, tt.expectedErrContains)
			}
		})
	}
}

func TestListStoriesHandler(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()

	t.Run("returns the learner's stories", func(t *testing.T) {
		first, err := domain.NewStory(learnerID, "First", "One sentence.", "")
		require.NoError(t, err)
		second, err := domain.NewStory(learnerID, "Second", "Another sentence.", "")
		require.NoError(t, err)

		handler := NewStoryHandler(&mockStoryService{
			listStoriesFn: func(ctx context.Context, gotLearnerID uuid.UUID, limit, offset int) ([]*domain.Story, error) {
				assert.Equal(t, learnerID, gotLearnerID)
				assert.Equal(t, 20, limit)
				assert.Equal(t, 0, offset)
				return []*domain.Story{first, second}, nil
			},
		})

		req := newReviewRequest(t, http.MethodGet, "/stories", "", learnerID, nil)
		rr := httptest.NewRecorder()
		handler.ListStories(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp StoryListResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Equal(t, 2, resp.Count)
		assert.Equal(t, "First", resp.Stories[0].Title)
	})

	t.Run("passes pagination parameters through", func(t *testing.T) {
		handler := NewStoryHandler(&mockStoryService{
			listStoriesFn: func(ctx context.Context, gotLearnerID uuid.UUID, limit, offset int) ([]*domain.Story, error) {
				assert.Equal(t, 5, limit)
				assert.Equal(t, 10, offset)
				return nil, nil
			},
		})

		req := newReviewRequest(t, http.MethodGet, "/stories?limit=5&offset=10", "", learnerID, nil)
		rr := httptest.NewRecorder()
		handler.ListStories(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		handler := NewStoryHandler(&mockStoryService{
			listStoriesFn: func(ctx context.Context, gotLearnerID uuid.UUID, limit, offset int) ([]*domain.Story, error) {
				return nil, errors.New("query timeout")
			},
		})

		req := newReviewRequest(t, http.MethodGet, "/stories", "", learnerID, nil)
		rr := httptest.NewRecorder()
		handler.ListStories(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestGetStoryItemsHandler(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	storyID := uuid.New()

	t.Run("returns extracted items", func(t *testing.T) {
		item, err := domain.NewLearningItem("the vendor", "विक्रेता", "", storyID)
		require.NoError(t, err)

		handler := NewStoryHandler(&mockStoryService{
			getStoryItemsFn: func(ctx context.Context, gotLearnerID, gotStoryID uuid.UUID) ([]*domain.LearningItem, error) {
				assert.Equal(t, learnerID, gotLearnerID)
				assert.Equal(t, storyID, gotStoryID)
				return []*domain.LearningItem{item}, nil
			},
		})

		req := newReviewRequest(t,
			http.MethodGet, "/stories/"+storyID.String()+"/items",
			storyID.String(), learnerID, nil)
		rr := httptest.NewRecorder()
		handler.GetStoryItems(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var items []*domain.LearningItem
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "the vendor", items[0].English)
	})

	t.Run("pending story yields an empty list", func(t *testing.T) {
		handler := NewStoryHandler(&mockStoryService{
			getStoryItemsFn: func(ctx context.Context, gotLearnerID, gotStoryID uuid.UUID) ([]*domain.LearningItem, error) {
				return nil, nil
			},
		})

		req := newReviewRequest(t,
			http.MethodGet, "/stories/"+storyID.String()+"/items",
			storyID.String(), learnerID, nil)
		rr := httptest.NewRecorder()
		handler.GetStoryItems(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]\n", rr.Body.String())
	})

	t.Run("someone else's story is not found", func(t *testing.T) {
		handler := NewStoryHandler(&mockStoryService{
			getStoryItemsFn: func(ctx context.Context, gotLearnerID, gotStoryID uuid.UUID) ([]*domain.LearningItem, error) {
				return nil, story.ErrStoryNotFound
			},
		})

		req := newReviewRequest(t,
			http.MethodGet, "/stories/"+storyID.String()+"/items",
			storyID.String(), learnerID, nil)
		rr := httptest.NewRecorder()
		handler.GetStoryItems(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
