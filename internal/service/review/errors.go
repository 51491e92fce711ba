package review

import "errors"

// Service-level errors exposed to API handlers. Store and algorithm errors
// are mapped onto these so callers never depend on lower layers.
var (
	// ErrInvalidOutcome indicates the submitted review outcome is not one of
	// the supported grades.
	ErrInvalidOutcome = errors.New("invalid review outcome")

	// ErrUnknownItem indicates the learner has no review state for the item,
	// so an answer cannot be recorded against it.
	ErrUnknownItem = errors.New("item is not scheduled for review")

	// ErrItemNotFound indicates the learning item itself does not exist.
	ErrItemNotFound = errors.New("learning item not found")

	// ErrAlreadyInitialized indicates review state already exists for the
	// learner/item pair.
	ErrAlreadyInitialized = errors.New("item is already scheduled for review")

	// ErrInvalidPostponeDays indicates a postpone request with a
	// non-positive day count.
	ErrInvalidPostponeDays = errors.New("postpone days must be at least 1")
)
