package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/anwarji786/EnglishLearningApp/internal/api/shared"
	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/service/review"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// maxDuePageSize caps how many due items one request can fetch.
const maxDuePageSize = 100

// ReviewHandler handles review scheduling API requests.
type ReviewHandler struct {
	reviewService review.ReviewService
	validator     *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(reviewService review.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// GetDueItems handles GET /reviews/due. The limit query parameter caps the
// page size, default 20.
func (h *ReviewHandler) GetDueItems(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := getQueryInt(r, "limit", 20)
	if limit <= 0 {
		limit = 20
	}
	if limit > maxDuePageSize {
		limit = maxDuePageSize
	}

	due := make([]*store.DueItem, 0, limit)
	for item, err := range h.reviewService.DueItems(r.Context(), learnerID, limit) {
		if err != nil {
			shared.RespondWithErrorAndLog(w, r,
				http.StatusInternalServerError, "Failed to load due items", err)
			return
		}
		due = append(due, item)
		if len(due) == limit {
			break
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewDueItemsResponse(due))
}

// ScheduleItem handles POST /items/{id}/schedule. It initializes the review
// schedule for the authenticated learner and the item.
func (h *ReviewHandler) ScheduleItem(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.reviewService.Initialize(r.Context(), learnerID, itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewReviewStateResponse(state))
}

// SubmitAnswer handles POST /items/{id}/answer.
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	state, err := h.reviewService.RecordAnswer(
		r.Context(), learnerID, itemID, domain.ReviewOutcome(req.Outcome))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReviewStateResponse(state))
}

// GetItemSchedule handles GET /items/{id}/schedule.
func (h *ReviewHandler) GetItemSchedule(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.reviewService.GetState(r.Context(), learnerID, itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReviewStateResponse(state))
}

// PostponeItem handles POST /items/{id}/postpone.
func (h *ReviewHandler) PostponeItem(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	state, err := h.reviewService.Postpone(r.Context(), learnerID, itemID, req.Days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReviewStateResponse(state))
}

// GetProgress handles GET /reviews/progress.
func (h *ReviewHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := h.reviewService.Progress(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to load progress", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
