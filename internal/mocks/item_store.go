package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// MockItemStore implements store.ItemStore for testing.
type MockItemStore struct {
	CreateFn         func(ctx context.Context, item *domain.LearningItem) error
	CreateMultipleFn func(ctx context.Context, items []*domain.LearningItem) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error)
	ListByStoryFn    func(ctx context.Context, storyID uuid.UUID) ([]*domain.LearningItem, error)

	mu    sync.Mutex
	Items map[uuid.UUID]*domain.LearningItem
}

// NewMockItemStore creates a mock store with initialized defaults.
func NewMockItemStore() *MockItemStore {
	return &MockItemStore{
		Items: make(map[uuid.UUID]*domain.LearningItem),
	}
}

var _ store.ItemStore = (*MockItemStore)(nil)

// Create implements the ItemStore interface.
func (m *MockItemStore) Create(ctx context.Context, item *domain.LearningItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[item.ID] = item
	return nil
}

// CreateMultiple implements the ItemStore interface.
func (m *MockItemStore) CreateMultiple(ctx context.Context, items []*domain.LearningItem) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, items)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		m.Items[item.ID] = item
	}
	return nil
}

// GetByID implements the ItemStore interface.
func (m *MockItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LearningItem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	item, exists := m.Items[id]
	if !exists {
		return nil, store.ErrItemNotFound
	}
	return item, nil
}

// ListByStory implements the ItemStore interface.
func (m *MockItemStore) ListByStory(ctx context.Context, storyID uuid.UUID) ([]*domain.LearningItem, error) {
	if m.ListByStoryFn != nil {
		return m.ListByStoryFn(ctx, storyID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	items := []*domain.LearningItem{}
	for _, item := range m.Items {
		if item.StoryID == storyID {
			items = append(items, item)
		}
	}
	return items, nil
}

// WithTx implements the ItemStore interface.
func (m *MockItemStore) WithTx(_ *sql.Tx) store.ItemStore {
	return m
}
