package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anwarji786/EnglishLearningApp/internal/api/shared"
	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/service/story"
)

// StoryHandler handles story workflow API requests.
type StoryHandler struct {
	storyService story.StoryService
	validator    *validator.Validate
}

// NewStoryHandler creates a new StoryHandler with the given dependencies.
func NewStoryHandler(storyService story.StoryService) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		validator:    validator.New(),
	}
}

// CreateStory handles POST /stories. The story is accepted for background
// processing and returned with status pending.
func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateStoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	created, err := h.storyService.CreateStory(
		r.Context(), learnerID, req.Title, req.EnglishText, req.HindiText)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, created)
}

// GetStory handles GET /stories/{id}.
func (h *StoryHandler) GetStory(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	storyID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	found, err := h.storyService.GetStory(r.Context(), learnerID, storyID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, found)
}

// ListStories handles GET /stories with limit/offset query parameters.
func (h *StoryHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := getQueryInt(r, "limit", 20)
	offset := getQueryInt(r, "offset", 0)

	stories, err := h.storyService.ListStories(r.Context(), learnerID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list stories", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StoryListResponse{Stories: stories, Count: len(stories)})
}

// GetStoryItems handles GET /stories/{id}/items.
func (h *StoryHandler) GetStoryItems(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	storyID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.storyService.GetStoryItems(r.Context(), learnerID, storyID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if items == nil {
		items = []*domain.LearningItem{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}
