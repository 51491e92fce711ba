// Package generation defines the boundary between the application core and
// the language model used for story processing. The core depends only on the
// Generator interface; the Gemini-backed implementation lives in
// internal/platform/gemini.
package generation

import (
	"context"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
)

// StoryResult is the output of processing one story: a Hindi translation of
// the full text plus the vocabulary items extracted from it.
type StoryResult struct {
	// HindiText is the Hindi translation of the story's English text.
	// Empty when the learner supplied their own translation.
	HindiText string

	// Items are the English/Hindi vocabulary pairs extracted from the story.
	// Each item's StoryID is already set to the source story.
	Items []*domain.LearningItem
}

// Generator turns a bilingual story into study material.
type Generator interface {
	// GenerateFromStory translates the story if needed and extracts
	// vocabulary items from its text.
	// Returns one of the package errors when the model call or its response
	// is unusable.
	GenerateFromStory(ctx context.Context, story *domain.Story) (*StoryResult, error)
}
