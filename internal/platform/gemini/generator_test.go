package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"text/template"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarji786/EnglishLearningApp/internal/config"
	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/generation"
)

func testGenerator(t *testing.T) *GeminiGenerator {
	t.Helper()
	tmpl, err := template.New("story").Parse(promptTemplateText)
	require.NoError(t, err)
	return &GeminiGenerator{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		promptTemplate: tmpl,
		model:          "gemini-2.0-flash",
	}
}

func testStory(t *testing.T) *domain.Story {
	t.Helper()
	story, err := domain.NewStory(
		uuid.New(),
		"The River",
		"The river flows past the village every morning.",
		"",
	)
	require.NoError(t, err)
	return story
}

func TestNewGeminiGeneratorValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewGeminiGenerator(ctx, nil, config.LLMConfig{
			GeminiAPIKey: "key", ModelName: "gemini-2.0-flash",
		})
		require.Error(t, err)
	})

	t.Run("missing API key", func(t *testing.T) {
		_, err := NewGeminiGenerator(ctx, logger, config.LLMConfig{ModelName: "gemini-2.0-flash"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("missing model name", func(t *testing.T) {
		_, err := NewGeminiGenerator(ctx, logger, config.LLMConfig{GeminiAPIKey: "key"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestCreatePrompt(t *testing.T) {
	g := testGenerator(t)
	story := testStory(t)

	prompt, err := g.createPrompt(story)
	require.NoError(t, err)
	assert.Contains(t, prompt, story.Title)
	assert.Contains(t, prompt, story.EnglishText)
	assert.NotContains(t, prompt, "provided by the learner",
		"translation section should be omitted when the story has no Hindi text")

	story.HindiText = "नदी हर सुबह गाँव के पास से बहती है।"
	prompt, err = g.createPrompt(story)
	require.NoError(t, err)
	assert.Contains(t, prompt, story.HindiText)
}

func TestParseResponse(t *testing.T) {
	g := testGenerator(t)
	ctx := context.Background()

	t.Run("valid response", func(t *testing.T) {
		story := testStory(t)
		result, err := g.parseResponse(ctx, &responseSchema{
			HindiText: "नदी हर सुबह गाँव के पास से बहती है।",
			Items: []itemSchema{
				{English: "river", Hindi: "नदी"},
				{English: "village", Hindi: "गाँव"},
				{English: "morning", Hindi: "सुबह"},
			},
		}, story)

		require.NoError(t, err)
		assert.Len(t, result.Items, 3)
		assert.NotEmpty(t, result.HindiText)
		for _, item := range result.Items {
			assert.Equal(t, story.ID, item.StoryID)
			assert.NoError(t, item.Validate())
		}
	})

	t.Run("incomplete pairs are skipped", func(t *testing.T) {
		result, err := g.parseResponse(ctx, &responseSchema{
			HindiText: "अनुवाद",
			Items: []itemSchema{
				{English: "river", Hindi: "नदी"},
				{English: "village", Hindi: ""},
				{English: "  ", Hindi: "सुबह"},
			},
		}, testStory(t))

		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
	})

	t.Run("no usable items", func(t *testing.T) {
		_, err := g.parseResponse(ctx, &responseSchema{
			HindiText: "अनुवाद",
			Items:     []itemSchema{{English: "river", Hindi: ""}},
		}, testStory(t))

		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("learner translation wins", func(t *testing.T) {
		story := testStory(t)
		story.HindiText = "मूल अनुवाद"
		result, err := g.parseResponse(ctx, &responseSchema{
			HindiText: "मॉडल अनुवाद",
			Items:     []itemSchema{{English: "river", Hindi: "नदी"}},
		}, story)

		require.NoError(t, err)
		assert.Equal(t, "मूल अनुवाद", result.HindiText)
	})

	t.Run("missing translation", func(t *testing.T) {
		_, err := g.parseResponse(ctx, &responseSchema{
			Items: []itemSchema{{English: "river", Hindi: "नदी"}},
		}, testStory(t))

		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}
