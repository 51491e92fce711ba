package mocks

import (
	"bytes"
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// stateKey identifies one learner/item pair.
type stateKey struct {
	learnerID uuid.UUID
	itemID    uuid.UUID
}

// MockReviewStateStore implements store.ReviewStateStore for testing. Its
// default ListDue honors the same ordering and keyset pagination contract as
// the PostgreSQL implementation so scheduling tests exercise real semantics.
type MockReviewStateStore struct {
	CreateFn             func(ctx context.Context, state *domain.ReviewState) error
	GetFn                func(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewState, error)
	UpdateFn             func(ctx context.Context, state *domain.ReviewState) error
	ListDueFn            func(ctx context.Context, learnerID uuid.UUID, now, afterDue time.Time, afterItemID uuid.UUID, limit int) ([]*store.DueItem, error)
	GetProgressSummaryFn func(ctx context.Context, learnerID uuid.UUID, now time.Time) (*store.ProgressSummary, error)

	// Items, when set, supplies full item data for ListDue results.
	// Otherwise results carry items with only the ID populated.
	Items *MockItemStore

	mu     sync.Mutex
	States map[stateKey]*domain.ReviewState
}

// NewMockReviewStateStore creates a mock store with initialized defaults.
func NewMockReviewStateStore() *MockReviewStateStore {
	return &MockReviewStateStore{
		States: make(map[stateKey]*domain.ReviewState),
	}
}

var _ store.ReviewStateStore = (*MockReviewStateStore)(nil)

// Create implements the ReviewStateStore interface.
func (m *MockReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, state)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := stateKey{state.LearnerID, state.ItemID}
	if _, exists := m.States[key]; exists {
		return store.ErrReviewStateExists
	}
	copied := *state
	m.States[key] = &copied
	return nil
}

// Get implements the ReviewStateStore interface.
func (m *MockReviewStateStore) Get(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, learnerID, itemID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, exists := m.States[stateKey{learnerID, itemID}]
	if !exists {
		return nil, store.ErrReviewStateNotFound
	}
	copied := *state
	return &copied, nil
}

// GetForUpdate implements the ReviewStateStore interface. The mock has no
// row locking; it behaves like Get.
func (m *MockReviewStateStore) GetForUpdate(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	return m.Get(ctx, learnerID, itemID)
}

// Update implements the ReviewStateStore interface.
func (m *MockReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, state)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := stateKey{state.LearnerID, state.ItemID}
	if _, exists := m.States[key]; !exists {
		return store.ErrReviewStateNotFound
	}
	copied := *state
	m.States[key] = &copied
	return nil
}

// ListDue implements the ReviewStateStore interface with the same ordering
// and cursor semantics as the PostgreSQL store.
func (m *MockReviewStateStore) ListDue(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
	afterDue time.Time,
	afterItemID uuid.UUID,
	limit int,
) ([]*store.DueItem, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, learnerID, now, afterDue, afterItemID, limit)
	}

	if limit <= 0 {
		limit = 20
	}

	m.mu.Lock()
	var due []*store.DueItem
	for key, state := range m.States {
		if key.learnerID != learnerID || state.NextReviewAt.After(now) {
			continue
		}
		if !afterCursor(state.NextReviewAt, key.itemID, afterDue, afterItemID) {
			continue
		}
		due = append(due, &store.DueItem{
			Item:         m.itemFor(key.itemID),
			NextReviewAt: state.NextReviewAt,
		})
	}
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return bytes.Compare(due[i].Item.ID[:], due[j].Item.ID[:]) < 0
	})

	if len(due) > limit {
		due = due[:limit]
	}
	if due == nil {
		due = []*store.DueItem{}
	}
	return due, nil
}

// afterCursor reports whether (due, itemID) sorts strictly after the cursor.
func afterCursor(due time.Time, itemID uuid.UUID, afterDue time.Time, afterItemID uuid.UUID) bool {
	if due.After(afterDue) {
		return true
	}
	if due.Equal(afterDue) {
		return bytes.Compare(itemID[:], afterItemID[:]) > 0
	}
	return false
}

func (m *MockReviewStateStore) itemFor(itemID uuid.UUID) *domain.LearningItem {
	if m.Items != nil {
		if item, ok := m.Items.Items[itemID]; ok {
			return item
		}
	}
	return &domain.LearningItem{ID: itemID}
}

// GetProgressSummary implements the ReviewStateStore interface.
func (m *MockReviewStateStore) GetProgressSummary(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
) (*store.ProgressSummary, error) {
	if m.GetProgressSummaryFn != nil {
		return m.GetProgressSummaryFn(ctx, learnerID, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	summary := &store.ProgressSummary{}
	for key, state := range m.States {
		if key.learnerID != learnerID {
			continue
		}
		summary.ItemsTracked++
		if !state.NextReviewAt.After(now) {
			summary.DueNow++
		}
		summary.TotalReviews += state.ReviewCount
		summary.TotalLapses += state.LapseCount
		if state.ConsecutiveCorrect > summary.BestStreak {
			summary.BestStreak = state.ConsecutiveCorrect
		}
	}
	return summary, nil
}

// WithTx implements the ReviewStateStore interface.
func (m *MockReviewStateStore) WithTx(_ *sql.Tx) store.ReviewStateStore {
	return m
}
