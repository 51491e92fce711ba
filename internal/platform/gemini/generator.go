// Package gemini implements the generation.Generator interface against
// Google's Gemini API. It translates learner stories into Hindi and extracts
// vocabulary pairs from them, with exponential backoff retry for transient
// API failures.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/anwarji786/EnglishLearningApp/internal/config"
	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/generation"
)

// ErrEmptyStoryText is returned when a story has no English text to process.
var ErrEmptyStoryText = errors.New("story text cannot be empty")

// promptTemplateText instructs the model to translate and extract vocabulary
// as strict JSON. The response is parsed into responseSchema.
const promptTemplateText = `You are helping an English speaker learn Hindi.

Story title: {{.Title}}

English text:
{{.EnglishText}}
{{if .HindiText}}
Hindi translation provided by the learner:
{{.HindiText}}
{{end}}
Tasks:
1. {{if .HindiText}}Use the provided Hindi translation as-is.{{else}}Translate the English text into natural Hindi (Devanagari script).{{end}}
2. Extract the 10 to 20 most useful vocabulary words and short phrases from the story for a beginner-to-intermediate learner. Prefer common, reusable words over proper nouns.

Respond with ONLY a JSON object in this exact shape, no markdown fences:
{"hindi_text": "...", "items": [{"english": "...", "hindi": "..."}]}`

// GeminiGenerator implements generation.Generator using the Gemini API.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// NewGeminiGenerator creates a generator from the LLM configuration.
// Returns generation.ErrInvalidConfig when required settings are missing.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("story").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Ensure GeminiGenerator implements generation.Generator
var _ generation.Generator = (*GeminiGenerator)(nil)

// GenerateFromStory implements generation.Generator.GenerateFromStory
func (g *GeminiGenerator) GenerateFromStory(
	ctx context.Context,
	story *domain.Story,
) (*generation.StoryResult, error) {
	if story == nil || story.EnglishText == "" {
		return nil, ErrEmptyStoryText
	}

	prompt, err := g.createPrompt(story)
	if err != nil {
		return nil, err
	}

	response, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response, story)
}

// createPrompt renders the prompt template for the story.
func (g *GeminiGenerator) createPrompt(story *domain.Story) (string, error) {
	data := promptData{
		Title:       story.Title,
		EnglishText: story.EnglishText,
		HindiText:   story.HindiText,
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and jitter.
// Permanent errors (safety blocks, malformed responses) are returned
// immediately; transient errors are retried up to MaxRetries times.
func (g *GeminiGenerator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		response, transient, err := g.callOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if !transient {
			return nil, err
		}
		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * jitter, jitter in [0.5, 1.0)
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoffSeconds * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callOnce makes a single API call. The second return value reports whether
// a failure is worth retrying.
func (g *GeminiGenerator) callOnce(ctx context.Context, prompt string) (*responseSchema, bool, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		// API-level failures are assumed transient.
		return nil, true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: story rejected by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	text := strings.TrimSpace(resp.Text())
	// Some models wrap JSON in markdown fences despite instructions.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, false, nil
}

// parseResponse converts the model response into a StoryResult, validating
// every extracted item. A response with no usable items is an error.
func (g *GeminiGenerator) parseResponse(
	ctx context.Context,
	response *responseSchema,
	story *domain.Story,
) (*generation.StoryResult, error) {
	items := make([]*domain.LearningItem, 0, len(response.Items))
	for _, raw := range response.Items {
		english := strings.TrimSpace(raw.English)
		hindi := strings.TrimSpace(raw.Hindi)
		if english == "" || hindi == "" {
			g.logger.WarnContext(ctx, "skipping incomplete vocabulary pair",
				slog.String("story_id", story.ID.String()))
			continue
		}

		item, err := domain.NewLearningItem(english, hindi, "", story.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid item in response: %v",
				generation.ErrInvalidResponse, err)
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no usable vocabulary items in response",
			generation.ErrInvalidResponse)
	}

	hindiText := story.HindiText
	if hindiText == "" {
		hindiText = strings.TrimSpace(response.HindiText)
	}
	if hindiText == "" {
		return nil, fmt.Errorf("%w: missing Hindi translation in response",
			generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "story processed",
		slog.String("story_id", story.ID.String()),
		slog.Int("item_count", len(items)))

	return &generation.StoryResult{
		HindiText: hindiText,
		Items:     items,
	}, nil
}
