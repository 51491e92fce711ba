package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// MockStoryStore implements store.StoryStore for testing.
type MockStoryStore struct {
	CreateFn       func(ctx context.Context, story *domain.Story) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Story, error)
	UpdateStatusFn func(ctx context.Context, id uuid.UUID, status domain.StoryStatus) error
	SetHindiTextFn func(ctx context.Context, id uuid.UUID, hindiText string) error

	mu      sync.Mutex
	Stories map[uuid.UUID]*domain.Story
}

// NewMockStoryStore creates a mock store with initialized defaults.
func NewMockStoryStore() *MockStoryStore {
	return &MockStoryStore{
		Stories: make(map[uuid.UUID]*domain.Story),
	}
}

var _ store.StoryStore = (*MockStoryStore)(nil)

// Create implements the StoryStore interface.
func (m *MockStoryStore) Create(ctx context.Context, story *domain.Story) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, story)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *story
	m.Stories[story.ID] = &copied
	return nil
}

// GetByID implements the StoryStore interface.
func (m *MockStoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	story, exists := m.Stories[id]
	if !exists {
		return nil, store.ErrStoryNotFound
	}
	copied := *story
	return &copied, nil
}

// ListByLearner implements the StoryStore interface.
func (m *MockStoryStore) ListByLearner(
	ctx context.Context,
	learnerID uuid.UUID,
	limit, offset int,
) ([]*domain.Story, error) {
	m.mu.Lock()
	var stories []*domain.Story
	for _, story := range m.Stories {
		if story.LearnerID == learnerID {
			copied := *story
			stories = append(stories, &copied)
		}
	}
	m.mu.Unlock()

	sort.Slice(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})

	if limit <= 0 {
		limit = 20
	}
	if offset > len(stories) {
		offset = len(stories)
	}
	stories = stories[offset:]
	if len(stories) > limit {
		stories = stories[:limit]
	}
	if stories == nil {
		stories = []*domain.Story{}
	}
	return stories, nil
}

// UpdateStatus implements the StoryStore interface.
func (m *MockStoryStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.StoryStatus,
) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	story, exists := m.Stories[id]
	if !exists {
		return store.ErrStoryNotFound
	}
	story.Status = status
	return nil
}

// SetHindiText implements the StoryStore interface.
func (m *MockStoryStore) SetHindiText(ctx context.Context, id uuid.UUID, hindiText string) error {
	if m.SetHindiTextFn != nil {
		return m.SetHindiTextFn(ctx, id, hindiText)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	story, exists := m.Stories[id]
	if !exists {
		return store.ErrStoryNotFound
	}
	story.HindiText = hindiText
	return nil
}

// WithTx implements the StoryStore interface.
func (m *MockStoryStore) WithTx(_ *sql.Tx) store.StoryStore {
	return m
}
