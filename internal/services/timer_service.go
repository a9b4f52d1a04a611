package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure TimerServiceImpl implements TimerService
var _ TimerService = (*TimerServiceImpl)(nil)

// TimerServiceImpl owns the canonical countdown for the active draw cycle.
// The countdown is always recomputed from the cycle's persisted absolute end
// timestamp, so independent consumers polling at different offsets converge
// on the same value.
type TimerServiceImpl struct {
	cycleRepo    repositories.DrawCycleRepository
	settingsRepo repositories.SettingsRepository
	now          func() time.Time
}

// NewTimerService creates a new TimerServiceImpl
func NewTimerService(cycleRepo repositories.DrawCycleRepository, settingsRepo repositories.SettingsRepository) *TimerServiceImpl {
	return &TimerServiceImpl{
		cycleRepo:    cycleRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *TimerServiceImpl) WithClock(now func() time.Time) *TimerServiceImpl {
	s.now = now
	return s
}

// CurrentRemaining computes scheduledEndAt - now for the live cycle
func (s *TimerServiceImpl) CurrentRemaining(ctx context.Context) (time.Duration, error) {
	cycle, err := s.cycleRepo.FindCurrent(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: timer state unreadable: %v", models.ErrStale, err)
	}
	if cycle.ScheduledEndAt.IsZero() {
		return 0, fmt.Errorf("%w: cycle %d has no end timestamp", models.ErrStale, cycle.DrawNumber)
	}
	return cycle.ScheduledEndAt.Sub(s.now()), nil
}

// Resync fixes the live cycle's end timestamp. Once an end timestamp is set
// for a cycle, repeated calls without force return it unchanged so that every
// consumer's countdown stays consistent.
func (s *TimerServiceImpl) Resync(ctx context.Context, force bool) (time.Time, error) {
	cycle, err := s.cycleRepo.FindCurrent(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timer state unreadable: %v", models.ErrStale, err)
	}
	if !force && !cycle.ScheduledEndAt.IsZero() {
		return cycle.ScheduledEndAt, nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load engine settings: %w", err)
	}
	endAt := s.now().Add(time.Duration(settings.IntervalSeconds) * time.Second)

	ok, err := s.cycleRepo.SetScheduledEnd(ctx, cycle.DrawNumber, endAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to persist end timestamp: %w", err)
	}
	if !ok {
		// The cycle resolved while we were resyncing; report whatever is
		// current now rather than the timestamp we lost the race with.
		current, err := s.cycleRepo.FindCurrent(ctx)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: timer state unreadable: %v", models.ErrStale, err)
		}
		return current.ScheduledEndAt, nil
	}

	slog.Info("Timer resynced", "drawNumber", cycle.DrawNumber, "endAt", endAt, "forced", force)
	return endAt, nil
}

// SetInterval validates and stores the timer interval
func (s *TimerServiceImpl) SetInterval(ctx context.Context, seconds int) error {
	if seconds < models.MinIntervalSeconds || seconds > models.MaxIntervalSeconds {
		return fmt.Errorf("%w: interval must be between %d and %d seconds",
			models.ErrInvalidRange, models.MinIntervalSeconds, models.MaxIntervalSeconds)
	}
	if err := s.settingsRepo.SetInterval(ctx, seconds); err != nil {
		return fmt.Errorf("failed to store timer interval: %w", err)
	}
	slog.Info("Timer interval updated", "seconds", seconds)
	return nil
}
