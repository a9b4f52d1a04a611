package services

import (
	"context"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
)

// DrawService defines the interface for draw lifecycle operations: the state
// machine transitions, the operator actions serialized against them, and the
// combined snapshot served to displays.
type DrawService interface {
	// EnsureCurrentCycle opens a fresh cycle when none is live (startup and
	// crash recovery). It is a no-op when a live cycle already exists.
	EnsureCurrentCycle(ctx context.Context) (*models.DrawCycle, error)

	// CurrentCycle returns the single live cycle.
	CurrentCycle(ctx context.Context) (*models.DrawCycle, error)

	// LockCurrentCycle moves the live cycle from OPEN to LOCKED once the
	// countdown passes the lock threshold. Already-locked cycles are left
	// untouched.
	LockCurrentCycle(ctx context.Context) error

	// ResolveCycle decides the outcome of the named draw by precedence (forced
	// directive, then manual override in manual mode, then uniform random),
	// persists it at most once, appends history and opens the next cycle.
	// Callers pass the draw number they observed; if that draw has already
	// resolved by the time the call lands, the existing result is returned as
	// a no-op. Concurrent triggers for the same draw produce exactly one
	// resolution.
	ResolveCycle(ctx context.Context, drawNumber int64, trigger string) (*models.DrawResult, error)

	// SetManualNumber records a manual override for the currently open draw,
	// switching the engine to manual mode in the same operation.
	SetManualNumber(ctx context.Context, drawNumber int64, number int, setBy string) error

	// SetMode switches the resolution mode. Re-enabling automatic mode
	// discards any manual override for the open draw.
	SetMode(ctx context.Context, mode models.Mode) error

	// GetCurrentDrawInfo assembles the display snapshot.
	GetCurrentDrawInfo(ctx context.Context) (*models.CurrentDrawInfo, error)

	// GetRecentResults returns the latest resolved draws, newest first.
	GetRecentResults(ctx context.Context, limit int) ([]*models.DrawResult, error)
}

// TimerService defines the interface for the canonical countdown. All
// consumers derive remaining time from the same persisted absolute end
// timestamp; the service never hands out a decrementing counter.
type TimerService interface {
	// CurrentRemaining returns scheduledEndAt - now for the live cycle. The
	// value is negative once the cycle has expired. When the end timestamp
	// cannot be read the error wraps models.ErrStale and callers must not
	// resolve on it.
	CurrentRemaining(ctx context.Context) (time.Duration, error)

	// Resync recomputes the live cycle's end timestamp as now + interval, but
	// only when none is fixed yet or force is set. Calling it twice within
	// one cycle without force returns the same timestamp.
	Resync(ctx context.Context, force bool) (time.Time, error)

	// SetInterval updates the timer interval, rejecting values outside
	// [10, 300] seconds. Only cycles created after the call are affected.
	SetInterval(ctx context.Context, seconds int) error
}

// ForcedNumberService defines the interface for forced-outcome directives.
type ForcedNumberService interface {
	Create(ctx context.Context, targetDrawNumber int64, number int, createdBy, reason string) (*models.ForcedNumberDirective, error)
	// Peek is read-only and side-effect-free, used by console polling.
	Peek(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error)
	// Consume atomically claims the directive; a second call returns
	// models.ErrNotFound.
	Consume(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error)
}

// ExposureService defines the interface for bet exposure aggregation.
type ExposureService interface {
	// Aggregate tallies stake and potential payout per wheel number and per
	// bet category for a draw. Pure over the ledger; all 37 numbers are
	// always present in the result.
	Aggregate(ctx context.Context, drawNumber int64) (*models.BetAggregate, error)
}

// RecommendationService defines the interface for ranked outcome candidates.
type RecommendationService interface {
	Recommend(ctx context.Context, drawNumber int64, strategy models.Strategy) ([]models.Recommendation, error)
}

// AuthService defines the interface for operator authentication.
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}
