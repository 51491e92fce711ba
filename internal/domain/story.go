package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StoryStatus represents the processing lifecycle of a submitted story.
type StoryStatus string

// Possible story status values
const (
	StoryStatusPending    StoryStatus = "pending"
	StoryStatusProcessing StoryStatus = "processing"
	StoryStatusCompleted  StoryStatus = "completed"
	StoryStatusFailed     StoryStatus = "failed"
)

// Story-specific validation errors
var (
	ErrStoryIDEmpty        = errors.New("story ID cannot be empty")
	ErrStoryLearnerIDEmpty = errors.New("story learner ID cannot be empty")
	ErrStoryTitleEmpty     = errors.New("story title cannot be empty")
	ErrStoryTextEmpty      = errors.New("story English text cannot be empty")
	ErrInvalidStoryStatus  = errors.New("invalid story status")
)

// Story is a bilingual reading passage submitted by a learner. Vocabulary
// extraction runs asynchronously: a pending story is picked up by a background
// task that generates LearningItems from its text and moves the status to
// completed (or failed).
type Story struct {
	ID          uuid.UUID   `json:"id"`
	LearnerID   uuid.UUID   `json:"learner_id"`
	Title       string      `json:"title"`
	EnglishText string      `json:"english_text"`
	HindiText   string      `json:"hindi_text,omitempty"`
	Status      StoryStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewStory creates a pending Story owned by the given learner.
// Returns an error if validation fails.
func NewStory(learnerID uuid.UUID, title, englishText, hindiText string) (*Story, error) {
	now := time.Now().UTC()
	story := &Story{
		ID:          uuid.New(),
		LearnerID:   learnerID,
		Title:       title,
		EnglishText: englishText,
		HindiText:   hindiText,
		Status:      StoryStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := story.Validate(); err != nil {
		return nil, err
	}

	return story, nil
}

// Validate checks if the Story has valid data.
// Returns an error if any field fails validation.
func (s *Story) Validate() error {
	if s.ID == uuid.Nil {
		return ErrStoryIDEmpty
	}

	if s.LearnerID == uuid.Nil {
		return ErrStoryLearnerIDEmpty
	}

	if s.Title == "" {
		return ErrStoryTitleEmpty
	}

	if s.EnglishText == "" {
		return ErrStoryTextEmpty
	}

	switch s.Status {
	case StoryStatusPending, StoryStatusProcessing, StoryStatusCompleted, StoryStatusFailed:
	default:
		return ErrInvalidStoryStatus
	}

	return nil
}
