package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anwarji786/EnglishLearningApp/internal/domain"
	"github.com/anwarji786/EnglishLearningApp/internal/domain/srs"
	"github.com/anwarji786/EnglishLearningApp/internal/store"
)

// defaultDuePageSize is used when DueItems is called with a non-positive
// page size.
const defaultDuePageSize = 20

// reviewService is the standard implementation of ReviewService.
type reviewService struct {
	reviewStates store.ReviewStateStore
	items        store.ItemStore
	scheduler    srs.Service
	runTx        store.TxRunner
	logger       *slog.Logger
	locks        keyedMutex

	// timeFunc returns the current time; replaceable in tests.
	timeFunc func() time.Time
}

var _ ReviewService = (*reviewService)(nil)

// NewReviewService creates a ReviewService with the given dependencies.
func NewReviewService(
	reviewStates store.ReviewStateStore,
	items store.ItemStore,
	scheduler srs.Service,
	runTx store.TxRunner,
	logger *slog.Logger,
) (ReviewService, error) {
	if reviewStates == nil {
		return nil, errors.New("review state store cannot be nil")
	}
	if items == nil {
		return nil, errors.New("item store cannot be nil")
	}
	if scheduler == nil {
		return nil, errors.New("scheduler cannot be nil")
	}
	if runTx == nil {
		return nil, errors.New("transaction runner cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &reviewService{
		reviewStates: reviewStates,
		items:        items,
		scheduler:    scheduler,
		runTx:        runTx,
		logger:       logger.With(slog.String("component", "review_service")),
		timeFunc:     time.Now,
	}, nil
}

// Initialize implements the ReviewService interface.
func (s *reviewService) Initialize(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("checking item: %w", err)
	}

	now := s.timeFunc().UTC()
	state, err := s.scheduler.NewReviewState(learnerID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("building initial review state: %w", err)
	}

	if err := s.reviewStates.Create(ctx, state); err != nil {
		if errors.Is(err, store.ErrReviewStateExists) {
			return nil, ErrAlreadyInitialized
		}
		return nil, fmt.Errorf("saving review state: %w", err)
	}

	s.logger.Debug("review schedule initialized",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()))

	return state, nil
}

// RecordAnswer implements the ReviewService interface. The update runs inside
// a transaction with a row-level lock, and a process-local lock per
// learner/item pair keeps concurrent answers from contending on the row.
func (s *reviewService) RecordAnswer(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	outcome domain.ReviewOutcome,
) (*domain.ReviewState, error) {
	if !outcome.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	unlock := s.locks.lock(learnerID, itemID)
	defer unlock()

	now := s.timeFunc().UTC()

	var updated *domain.ReviewState
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		states := s.reviewStates.WithTx(tx)

		current, err := states.GetForUpdate(ctx, learnerID, itemID)
		if err != nil {
			if errors.Is(err, store.ErrReviewStateNotFound) {
				return ErrUnknownItem
			}
			return fmt.Errorf("loading review state: %w", err)
		}

		next, err := s.scheduler.NextReviewState(current, outcome, now)
		if err != nil {
			return fmt.Errorf("computing next review state: %w", err)
		}

		if err := states.Update(ctx, next); err != nil {
			return fmt.Errorf("saving review state: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("review answer recorded",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("outcome", string(outcome)),
		slog.Int("interval_days", updated.Interval),
		slog.Time("next_review_at", updated.NextReviewAt))

	return updated, nil
}

// DueItems implements the ReviewService interface. Each range over the
// returned sequence snapshots the clock once, then pages through storage
// with a keyset cursor so the order stays stable while iterating.
func (s *reviewService) DueItems(
	ctx context.Context,
	learnerID uuid.UUID,
	pageSize int,
) iter.Seq2[*store.DueItem, error] {
	if pageSize <= 0 {
		pageSize = defaultDuePageSize
	}

	return func(yield func(*store.DueItem, error) bool) {
		now := s.timeFunc().UTC()

		var (
			afterDue    time.Time
			afterItemID uuid.UUID
		)
		for {
			page, err := s.reviewStates.ListDue(ctx, learnerID, now, afterDue, afterItemID, pageSize)
			if err != nil {
				yield(nil, fmt.Errorf("listing due items: %w", err))
				return
			}

			for _, due := range page {
				if !yield(due, nil) {
					return
				}
			}

			if len(page) < pageSize {
				return
			}

			last := page[len(page)-1]
			afterDue = last.NextReviewAt
			afterItemID = last.Item.ID
		}
	}
}

// GetState implements the ReviewService interface.
func (s *reviewService) GetState(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
) (*domain.ReviewState, error) {
	state, err := s.reviewStates.Get(ctx, learnerID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrReviewStateNotFound) {
			return nil, ErrUnknownItem
		}
		return nil, fmt.Errorf("loading review state: %w", err)
	}
	return state, nil
}

// Postpone implements the ReviewService interface.
func (s *reviewService) Postpone(
	ctx context.Context,
	learnerID, itemID uuid.UUID,
	days int,
) (*domain.ReviewState, error) {
	if days < 1 {
		return nil, ErrInvalidPostponeDays
	}

	unlock := s.locks.lock(learnerID, itemID)
	defer unlock()

	now := s.timeFunc().UTC()

	var updated *domain.ReviewState
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		states := s.reviewStates.WithTx(tx)

		current, err := states.GetForUpdate(ctx, learnerID, itemID)
		if err != nil {
			if errors.Is(err, store.ErrReviewStateNotFound) {
				return ErrUnknownItem
			}
			return fmt.Errorf("loading review state: %w", err)
		}

		next, err := s.scheduler.PostponeReview(current, days, now)
		if err != nil {
			if errors.Is(err, srs.ErrInvalidDays) {
				return ErrInvalidPostponeDays
			}
			return fmt.Errorf("postponing review: %w", err)
		}

		if err := states.Update(ctx, next); err != nil {
			return fmt.Errorf("saving review state: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Progress implements the ReviewService interface.
func (s *reviewService) Progress(
	ctx context.Context,
	learnerID uuid.UUID,
) (*store.ProgressSummary, error) {
	summary, err := s.reviewStates.GetProgressSummary(ctx, learnerID, s.timeFunc().UTC())
	if err != nil {
		return nil, fmt.Errorf("loading progress summary: %w", err)
	}
	return summary, nil
}
