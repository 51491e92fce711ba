package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/api/shared"
	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// ItemHandler handles learning item API requests. Items created here are
// standalone vocabulary entries; story-derived items come from the
// background generation task.
type ItemHandler struct {
	itemStore store.ItemStore
	validator *validator.Validate
}

// NewItemHandler creates a new ItemHandler with the given dependencies.
func NewItemHandler(itemStore store.ItemStore) *ItemHandler {
	return &ItemHandler{
		itemStore: itemStore,
		validator: validator.New(),
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := getLearnerIDFromContext(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	item, err := domain.NewLearningItem(req.English, req.Hindi, req.AudioURL, uuid.Nil)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item data: "+err.Error())
		return
	}

	if err := h.itemStore.Create(r.Context(), item); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// GetItem handles GET /items/{id}.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := getLearnerIDFromContext(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	itemID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.itemStore.GetByID(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Learning item not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to load item", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}
