package api

import (
	"errors"
	"net/http"

	"github.com/anwarji786/EnglishLearningApp/internal/service/auth"
	"github.com/anwarji786/EnglishLearningApp/internal/service/review"
	"github.com/anwarji786/EnglishLearningApp/internal/service/story"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// handlers never leak internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	case errors.Is(err, review.ErrUnknownItem),
		errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, story.ErrStoryNotFound),
		errors.Is(err, story.ErrLearnerNotFound),
		errors.Is(err, store.ErrLearnerNotFound),
		errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrStoryNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, review.ErrAlreadyInitialized):
		return http.StatusConflict

	case errors.Is(err, review.ErrInvalidOutcome),
		errors.Is(err, review.ErrInvalidPostponeDays),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for the error. Internal
// details stay in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, review.ErrUnknownItem):
		return "Item is not scheduled for review"

	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, store.ErrItemNotFound):
		return "Learning item not found"

	case errors.Is(err, story.ErrStoryNotFound),
		errors.Is(err, store.ErrStoryNotFound):
		return "Story not found"

	case errors.Is(err, story.ErrLearnerNotFound),
		errors.Is(err, store.ErrLearnerNotFound):
		return "Learner not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, review.ErrAlreadyInitialized):
		return "Item is already scheduled for review"

	case errors.Is(err, review.ErrInvalidOutcome):
		return "Invalid review outcome"

	case errors.Is(err, review.ErrInvalidPostponeDays):
		return "Postpone days must be between 1 and 365"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
