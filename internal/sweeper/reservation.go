package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/trait-inventory/internal/adapter"
	"github.com/feral-file/trait-inventory/internal/domain"
	"github.com/feral-file/trait-inventory/internal/logger"
	"github.com/feral-file/trait-inventory/internal/store"
)

// ReservationSweeperConfig holds configuration for the reservation sweeper
type ReservationSweeperConfig struct {
	Interval time.Duration // Time to sleep between cleanup cycles
}

// CleanupResult is the outcome of one cleanup cycle
type CleanupResult struct {
	CleanedCount int64
}

// ReservationSweeper expires reservations whose TTL elapsed
//
//go:generate mockgen -source=reservation.go -destination=../mocks/reservation_sweeper.go -package=mocks -mock_names=ReservationSweeper=MockReservationSweeper
type ReservationSweeper interface {
	Sweeper

	// CleanupExpiredReservations runs a single cleanup cycle
	CleanupExpiredReservations(ctx context.Context) (*CleanupResult, error)
}

type reservationSweeper struct {
	config    ReservationSweeperConfig
	store     store.Store
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewReservationSweeper creates a new reservation sweeper
func NewReservationSweeper(config ReservationSweeperConfig, st store.Store, clock adapter.Clock) ReservationSweeper {
	if config.Interval <= 0 {
		config.Interval = domain.DEFAULT_CLEANUP_INTERVAL
	}
	return &reservationSweeper{
		config:    config,
		store:     st,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *reservationSweeper) Name() string {
	return "reservation-sweeper"
}

// Start runs a cleanup immediately and then once per interval
func (s *reservationSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting reservation sweeper", zap.Duration("interval", s.config.Interval))

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Reservation sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Reservation sweeper stop requested")
			return nil
		default:
		}

		if _, err := s.CleanupExpiredReservations(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err)
			}
		}

		s.sleep(ctx, s.config.Interval)
	}
}

// Stop signals the loop to exit and waits for the in-flight cycle
func (s *reservationSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping reservation sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Reservation sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Reservation sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

func (s *reservationSweeper) CleanupExpiredReservations(ctx context.Context) (*CleanupResult, error) {
	startTime := s.clock.Now()

	cleaned, err := s.store.ExpireStaleReservations(ctx, startTime)
	if err != nil {
		return nil, fmt.Errorf("failed to expire stale reservations: %w", err)
	}

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int64("cleaned_count", cleaned),
	)

	return &CleanupResult{CleanedCount: cleaned}, nil
}

// sleep waits for duration, returning early on context cancellation or a stop signal
func (s *reservationSweeper) sleep(ctx context.Context, duration time.Duration) {
	select {
	case <-s.clock.After(duration):
	case <-ctx.Done():
	case <-s.stopChan:
	}
}
