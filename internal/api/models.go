package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// Request and response payloads for the API endpoints.

// RegisterRequest defines the payload for the learner registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the learner login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	LearnerID    uuid.UUID `json:"learner_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    string    `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateItemRequest defines the payload for creating a vocabulary item
// directly, outside the story workflow.
type CreateItemRequest struct {
	English  string `json:"english"  validate:"required,max=500"`
	Hindi    string `json:"hindi"    validate:"required,max=500"`
	AudioURL string `json:"audio_url" validate:"omitempty,url"`
}

// CreateStoryRequest defines the payload for submitting a bilingual story.
type CreateStoryRequest struct {
	Title       string `json:"title"        validate:"required,max=200"`
	EnglishText string `json:"english_text" validate:"required,max=20000"`
	HindiText   string `json:"hindi_text"   validate:"omitempty,max=40000"`
}

// AnswerRequest defines the payload for grading one review attempt.
type AnswerRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=again hard good easy"`
}

// PostponeRequest defines the payload for deferring a scheduled review.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1,max=365"`
}

// ReviewStateResponse is the API view of one learner/item schedule.
type ReviewStateResponse struct {
	ItemID             uuid.UUID  `json:"item_id"`
	IntervalDays       int        `json:"interval_days"`
	EaseFactor         float64    `json:"ease_factor"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	LapseCount         int        `json:"lapse_count"`
	ReviewCount        int        `json:"review_count"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt       time.Time  `json:"next_review_at"`
}

// NewReviewStateResponse converts a domain review state to its API view.
func NewReviewStateResponse(state *domain.ReviewState) ReviewStateResponse {
	resp := ReviewStateResponse{
		ItemID:             state.ItemID,
		IntervalDays:       state.Interval,
		EaseFactor:         state.EaseFactor,
		ConsecutiveCorrect: state.ConsecutiveCorrect,
		LapseCount:         state.LapseCount,
		ReviewCount:        state.ReviewCount,
		NextReviewAt:       state.NextReviewAt,
	}
	if !state.LastReviewedAt.IsZero() {
		t := state.LastReviewedAt
		resp.LastReviewedAt = &t
	}
	return resp
}

// DueItemResponse pairs a due item with its scheduled review time.
type DueItemResponse struct {
	Item         *domain.LearningItem `json:"item"`
	NextReviewAt time.Time            `json:"next_review_at"`
}

// DueItemsResponse is the paginated due queue.
type DueItemsResponse struct {
	Items []DueItemResponse `json:"items"`
	Count int               `json:"count"`
}

// NewDueItemsResponse converts store due items to their API view.
func NewDueItemsResponse(due []*store.DueItem) DueItemsResponse {
	items := make([]DueItemResponse, 0, len(due))
	for _, d := range due {
		items = append(items, DueItemResponse{Item: d.Item, NextReviewAt: d.NextReviewAt})
	}
	return DueItemsResponse{Items: items, Count: len(items)}
}

// StoryListResponse is a page of the learner's stories.
type StoryListResponse struct {
	Stories []*domain.Story `json:"stories"`
	Count   int             `json:"count"`
}
