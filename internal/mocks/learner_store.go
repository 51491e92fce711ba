package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// MockLearnerStore implements store.LearnerStore for testing.
type MockLearnerStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, learner *domain.Learner) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Learner, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Learner, error)

	// Data for the default implementation, keyed by email
	mu       sync.Mutex
	Learners map[string]*domain.Learner
}

// NewMockLearnerStore creates a mock store with initialized defaults.
func NewMockLearnerStore() *MockLearnerStore {
	return &MockLearnerStore{
		Learners: make(map[string]*domain.Learner),
	}
}

var _ store.LearnerStore = (*MockLearnerStore)(nil)

// Create implements the LearnerStore interface.
func (m *MockLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, learner)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Learners[learner.Email]; exists {
		return store.ErrEmailExists
	}
	m.Learners[learner.Email] = learner
	return nil
}

// GetByID implements the LearnerStore interface.
func (m *MockLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, learner := range m.Learners {
		if learner.ID == id {
			return learner, nil
		}
	}
	return nil, store.ErrLearnerNotFound
}

// GetByEmail implements the LearnerStore interface.
func (m *MockLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	learner, exists := m.Learners[email]
	if !exists {
		return nil, store.ErrLearnerNotFound
	}
	return learner, nil
}

// WithTx implements the LearnerStore interface. The mock has no transaction
// semantics; it returns itself.
func (m *MockLearnerStore) WithTx(_ *sql.Tx) store.LearnerStore {
	return m
}
