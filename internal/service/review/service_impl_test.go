package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/domain/srs"
	"github.com/anwarji786/EnglishLearningApp/internal/mocks"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// noTxRunner invokes the function directly. Mock stores return themselves
// from WithTx, so no real transaction is needed.
func noTxRunner(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	service *reviewService
	states  *mocks.MockReviewStateStore
	items   *mocks.MockItemStore
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	items := mocks.NewMockItemStore()
	states := mocks.NewMockReviewStateStore()
	states.Items = items

	svc, err := NewReviewService(states, items, srs.NewDefaultService(), noTxRunner, discardLogger())
	require.NoError(t, err)

	impl := svc.(*reviewService)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	impl.timeFunc = func() time.Time { return now }

	return &testEnv{service: impl, states: states, items: items, now: now}
}

// addItem registers a learning item in the mock item store.
func (e *testEnv) addItem(t *testing.T) *domain.LearningItem {
	t.Helper()

	item, err := domain.NewLearningItem("the water is cold", "पानी ठंडा है", "", uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, e.items.Create(context.Background(), item))
	return item
}

func TestNewReviewServiceValidation(t *testing.T) {
	states := mocks.NewMockReviewStateStore()
	items := mocks.NewMockItemStore()
	scheduler := srs.NewDefaultService()
	logger := discardLogger()

	cases := []struct {
		name    string
		states  store.ReviewStateStore
		items   store.ItemStore
		sched   srs.Service
		runTx   store.TxRunner
		logger  *slog.Logger
		wantErr bool
	}{
		{"valid", states, items, scheduler, noTxRunner, logger, false},
		{"nil state store", nil, items, scheduler, noTxRunner, logger, true},
		{"nil item store", states, nil, scheduler, noTxRunner, logger, true},
		{"nil scheduler", states, items, nil, noTxRunner, logger, true},
		{"nil runner", states, items, scheduler, nil, logger, true},
		{"nil logger", states, items, scheduler, noTxRunner, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReviewService(tc.states, tc.items, tc.sched, tc.runTx, tc.logger)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	state, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, state.Interval)
	assert.InDelta(t, 2.5, state.EaseFactor, 1e-9)
	assert.True(t, state.NextReviewAt.Equal(env.now), "new state must be immediately due")
	assert.Zero(t, state.ReviewCount)
	assert.Zero(t, state.LapseCount)
}

func TestInitializeUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Initialize(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestInitializeTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)

	_, err = env.service.Initialize(context.Background(), learnerID, item.ID)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// A different learner can still initialize the same item.
	_, err = env.service.Initialize(context.Background(), uuid.New(), item.ID)
	assert.NoError(t, err)
}

func TestRecordAnswerInvalidOutcome(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.RecordAnswer(context.Background(), uuid.New(), uuid.New(), "perfect")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestRecordAnswerUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.RecordAnswer(context.Background(), uuid.New(), uuid.New(), domain.ReviewOutcomeGood)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestRecordAnswerGood(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)

	state, err := env.service.RecordAnswer(context.Background(), learnerID, item.ID, domain.ReviewOutcomeGood)
	require.NoError(t, err)

	// round(1 * 1.0 * 2.5) = 3
	assert.Equal(t, 3, state.Interval)
	assert.Equal(t, 1, state.ConsecutiveCorrect)
	assert.Equal(t, 1, state.ReviewCount)
	assert.True(t, state.NextReviewAt.Equal(env.now.AddDate(0, 0, 3)))

	// The update must be persisted, not just returned.
	stored, err := env.states.Get(context.Background(), learnerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Interval)
	assert.Equal(t, 1, stored.ReviewCount)
}

func TestRecordAnswerAgainResetsSchedule(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)
	_, err = env.service.RecordAnswer(context.Background(), learnerID, item.ID, domain.ReviewOutcomeGood)
	require.NoError(t, err)

	state, err := env.service.RecordAnswer(context.Background(), learnerID, item.ID, domain.ReviewOutcomeAgain)
	require.NoError(t, err)

	assert.Equal(t, 1, state.Interval, "interval must reset to the floor")
	assert.Equal(t, 1, state.LapseCount)
	assert.Equal(t, 0, state.ConsecutiveCorrect)
	assert.Less(t, state.EaseFactor, 2.5)
}

func TestRecordAnswerPersistenceFailure(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)

	updateErr := errors.New("connection reset")
	env.states.UpdateFn = func(ctx context.Context, state *domain.ReviewState) error {
		return updateErr
	}

	_, err = env.service.RecordAnswer(context.Background(), learnerID, item.ID, domain.ReviewOutcomeGood)
	assert.ErrorIs(t, err, updateErr)

	// The state must be unchanged after a failed write.
	env.states.UpdateFn = nil
	stored, err := env.states.Get(context.Background(), learnerID, item.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.ReviewCount)
}

// seedDue initializes count items whose due times step backward one hour per
// item, so item N is due before item N-1.
func seedDue(t *testing.T, env *testEnv, learnerID uuid.UUID, count int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		item := env.addItem(t)
		_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
		require.NoError(t, err)

		state, err := env.states.Get(context.Background(), learnerID, item.ID)
		require.NoError(t, err)
		state.NextReviewAt = env.now.Add(-time.Duration(i+1) * time.Hour)
		require.NoError(t, env.states.Update(context.Background(), state))
		ids = append(ids, item.ID)
	}
	return ids
}

func collectDue(t *testing.T, env *testEnv, learnerID uuid.UUID, pageSize int) []*store.DueItem {
	t.Helper()

	var out []*store.DueItem
	for due, err := range env.service.DueItems(context.Background(), learnerID, pageSize) {
		require.NoError(t, err)
		out = append(out, due)
	}
	return out
}

func TestDueItemsOrderAndPaging(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	ids := seedDue(t, env, learnerID, 5)

	// Page size 2 forces three ListDue calls.
	due := collectDue(t, env, learnerID, 2)
	require.Len(t, due, 5)

	// Most overdue first: items were seeded with increasing overdue age.
	for i := 1; i < len(due); i++ {
		assert.False(t, due[i-1].NextReviewAt.After(due[i].NextReviewAt),
			"due items out of order at %d", i)
	}
	assert.Equal(t, ids[4], due[0].Item.ID, "most overdue item must come first")
}

func TestDueItemsExcludesFuture(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	seedDue(t, env, learnerID, 2)

	// One item due exactly now and one in the future.
	boundary := env.addItem(t)
	_, err := env.service.Initialize(context.Background(), learnerID, boundary.ID)
	require.NoError(t, err)

	future := env.addItem(t)
	_, err = env.service.Initialize(context.Background(), learnerID, future.ID)
	require.NoError(t, err)
	state, err := env.states.Get(context.Background(), learnerID, future.ID)
	require.NoError(t, err)
	state.NextReviewAt = env.now.Add(time.Minute)
	require.NoError(t, env.states.Update(context.Background(), state))

	due := collectDue(t, env, learnerID, 10)
	require.Len(t, due, 3, "boundary item included, future item excluded")
	for _, d := range due {
		assert.NotEqual(t, future.ID, d.Item.ID, "future item was yielded as due")
	}
}

func TestDueItemsRestartable(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	seedDue(t, env, learnerID, 4)

	seq := env.service.DueItems(context.Background(), learnerID, 2)

	first := make([]uuid.UUID, 0, 4)
	for due, err := range seq {
		require.NoError(t, err)
		first = append(first, due.Item.ID)
	}

	second := make([]uuid.UUID, 0, 4)
	for due, err := range seq {
		require.NoError(t, err)
		second = append(second, due.Item.ID)
	}

	assert.Equal(t, first, second, "a second pass must replay the same sequence")
}

func TestDueItemsEarlyBreak(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	seedDue(t, env, learnerID, 5)

	// Delegate shares state with env.states so call counts can be observed
	// without recursing through the override.
	delegate := &mocks.MockReviewStateStore{States: env.states.States, Items: env.items}
	calls := 0
	env.states.ListDueFn = func(
		ctx context.Context,
		id uuid.UUID,
		now, afterDue time.Time,
		afterItemID uuid.UUID,
		limit int,
	) ([]*store.DueItem, error) {
		calls++
		return delegate.ListDue(ctx, id, now, afterDue, afterItemID, limit)
	}

	seen := 0
	for _, err := range env.service.DueItems(context.Background(), learnerID, 2) {
		require.NoError(t, err)
		seen++
		if seen == 1 {
			break
		}
	}

	assert.Equal(t, 1, seen)
	assert.Equal(t, 1, calls, "no prefetch past the break")
}

func TestDueItemsPropagatesStoreError(t *testing.T) {
	env := newTestEnv(t)
	listErr := errors.New("timeout acquiring connection")
	env.states.ListDueFn = func(
		ctx context.Context,
		id uuid.UUID,
		now, afterDue time.Time,
		afterItemID uuid.UUID,
		limit int,
	) ([]*store.DueItem, error) {
		return nil, listErr
	}

	var got error
	for _, err := range env.service.DueItems(context.Background(), uuid.New(), 10) {
		got = err
	}
	assert.ErrorIs(t, got, listErr)
}

func TestGetState(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	_, err := env.service.GetState(context.Background(), learnerID, item.ID)
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)

	state, err := env.service.GetState(context.Background(), learnerID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, state.ItemID)
}

func TestPostpone(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)

	state, err := env.service.Postpone(context.Background(), learnerID, item.ID, 3)
	require.NoError(t, err)
	assert.True(t, state.NextReviewAt.Equal(env.now.AddDate(0, 0, 3)))
	assert.Zero(t, state.ReviewCount, "postpone is not a review")

	_, err = env.service.Postpone(context.Background(), learnerID, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidPostponeDays)

	_, err = env.service.Postpone(context.Background(), learnerID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestProgress(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	seedDue(t, env, learnerID, 3)

	item := env.addItem(t)
	_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)
	_, err = env.service.RecordAnswer(context.Background(), learnerID, item.ID, domain.ReviewOutcomeGood)
	require.NoError(t, err)

	summary, err := env.service.Progress(context.Background(), learnerID)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ItemsTracked)
	assert.Equal(t, 3, summary.DueNow)
	assert.Equal(t, 1, summary.TotalReviews)
	assert.Equal(t, 1, summary.BestStreak)
}

func TestRecordAnswerSerializedPerPair(t *testing.T) {
	env := newTestEnv(t)
	learnerID := uuid.New()
	item := env.addItem(t)

	_, err := env.service.Initialize(context.Background(), learnerID, item.ID)
	require.NoError(t, err)

	const answers = 20
	done := make(chan error, answers)
	for i := 0; i < answers; i++ {
		go func() {
			_, err := env.service.RecordAnswer(context.Background(), learnerID, item.ID, domain.ReviewOutcomeGood)
			done <- err
		}()
	}
	for i := 0; i < answers; i++ {
		require.NoError(t, <-done)
	}

	state, err := env.states.Get(context.Background(), learnerID, item.ID)
	require.NoError(t, err)
	// Every answer must be applied exactly once.
	assert.Equal(t, answers, state.ReviewCount)
	assert.Equal(t, answers, state.ConsecutiveCorrect)
}
