package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Item-specific validation errors
var (
	// ErrItemIDEmpty is returned when a learning item ID is empty or nil.
	ErrItemIDEmpty = errors.New("learning item ID cannot be empty")

	// ErrItemEnglishEmpty is returned when a learning item has no English text.
	ErrItemEnglishEmpty = errors.New("learning item English text cannot be empty")

	// ErrItemHindiEmpty is returned when a learning item has no Hindi text.
	ErrItemHindiEmpty = errors.New("learning item Hindi text cannot be empty")
)

// LearningItem represents a unit of study: an English/Hindi pair that can be
// a single word, a phrase, or a full sentence. Items are shared content; the
// per-learner scheduling data lives in ReviewState.
type LearningItem struct {
	ID      uuid.UUID `json:"id"`
	English string    `json:"english"`
	Hindi   string    `json:"hindi"`

	// AudioURL optionally points at a pronunciation recording.
	AudioURL string `json:"audio_url,omitempty"`

	// StoryID links the item to the bilingual story it was extracted from,
	// or uuid.Nil for items created directly.
	StoryID uuid.UUID `json:"story_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLearningItem creates a new LearningItem with the given texts.
// It generates a new UUID for the item and sets the timestamps.
// Returns an error if validation fails.
func NewLearningItem(english, hindi, audioURL string, storyID uuid.UUID) (*LearningItem, error) {
	now := time.Now().UTC()
	item := &LearningItem{
		ID:        uuid.New(),
		English:   english,
		Hindi:     hindi,
		AudioURL:  audioURL,
		StoryID:   storyID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the LearningItem has valid data.
// Returns an error if any field fails validation.
func (i *LearningItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.English == "" {
		return ErrItemEnglishEmpty
	}

	if i.Hindi == "" {
		return ErrItemHindiEmpty
	}

	return nil
}
