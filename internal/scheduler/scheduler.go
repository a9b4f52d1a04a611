package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/services"
	"golang.org/x/exp/slog"
)

// Scheduler drives the draw lifecycle off the persisted end timestamp. Each
// tick re-reads the authoritative state, so a restarted process picks up
// exactly where the previous one stopped.
type Scheduler struct {
	draws services.DrawService
	timer services.TimerService

	tickInterval   time.Duration
	lockThreshold  time.Duration
	stuckThreshold time.Duration

	now func() time.Time
}

// NewScheduler creates a new Scheduler
func NewScheduler(draws services.DrawService, timer services.TimerService, tickInterval, lockThreshold, stuckThreshold time.Duration) *Scheduler {
	return &Scheduler{
		draws:          draws,
		timer:          timer,
		tickInterval:   tickInterval,
		lockThreshold:  lockThreshold,
		stuckThreshold: stuckThreshold,
		now:            time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Run ticks until the context is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Scheduler started", "tickInterval", s.tickInterval.String())
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick inspects the live cycle once and advances it as far as the countdown
// allows. Exported so tests can step the lifecycle with a fake clock.
func (s *Scheduler) Tick(ctx context.Context) {
	cycle, err := s.draws.CurrentCycle(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if _, err := s.draws.EnsureCurrentCycle(ctx); err != nil {
				slog.Error("Failed to open recovery cycle", "error", err)
			}
			return
		}
		slog.Error("Failed to read current cycle", "error", err)
		return
	}

	if cycle.Status == models.DrawStatusResolving {
		age := s.now().Sub(cycle.UpdatedAt)
		if age > s.stuckThreshold {
			slog.Error("Draw stuck in resolving state, retrying",
				"drawNumber", cycle.DrawNumber, "age", age.String())
			if _, err := s.draws.ResolveCycle(ctx, cycle.DrawNumber, "recovery"); err != nil {
				slog.Error("Recovery resolution failed", "drawNumber", cycle.DrawNumber, "error", err)
			}
		}
		return
	}

	remaining, err := s.timer.CurrentRemaining(ctx)
	if err != nil {
		// Never resolve a draw against a countdown we cannot trust.
		slog.Warn("Skipping tick on stale timer state", "error", err)
		return
	}

	if remaining <= 0 {
		if _, err := s.draws.ResolveCycle(ctx, cycle.DrawNumber, "timer"); err != nil {
			slog.Error("Timer resolution failed", "drawNumber", cycle.DrawNumber, "error", err)
		}
		return
	}

	if cycle.Status == models.DrawStatusOpen && remaining <= s.lockThreshold {
		if err := s.draws.LockCurrentCycle(ctx); err != nil {
			slog.Error("Failed to lock cycle", "drawNumber", cycle.DrawNumber, "error", err)
		}
	}
}
