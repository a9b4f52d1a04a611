package repositories

import (
	"context"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
)

// DrawCycleRepository defines the interface for draw cycle data operations.
// Status transitions are conditional updates: they succeed only when the
// cycle is still in the expected state, which is what serializes concurrent
// resolvers down to a single winner.
type DrawCycleRepository interface {
	Create(ctx context.Context, cycle *models.DrawCycle) error
	// FindCurrent returns the single live cycle (OPEN, LOCKED or RESOLVING).
	FindCurrent(ctx context.Context) (*models.DrawCycle, error)
	FindByNumber(ctx context.Context, drawNumber int64) (*models.DrawCycle, error)
	FindLastResolved(ctx context.Context) (*models.DrawCycle, error)
	// TransitionStatus moves the cycle from one status to another. It returns
	// false, nil when the cycle was not in the expected source status.
	TransitionStatus(ctx context.Context, drawNumber int64, from, to models.DrawStatus) (bool, error)
	// CompleteResolution writes the outcome and moves RESOLVING to RESOLVED in
	// one conditional update. The winning number is write-once: the update
	// only matches a cycle that has none yet.
	CompleteResolution(ctx context.Context, drawNumber int64, winningNumber int, source models.ResolutionSource, resolvedAt time.Time) (bool, error)
	// SetScheduledEnd fixes the absolute end timestamp of a live cycle.
	SetScheduledEnd(ctx context.Context, drawNumber int64, endAt time.Time) (bool, error)
}

// ForcedNumberRepository defines the interface for forced-number directives.
type ForcedNumberRepository interface {
	// Create stores a directive. It returns models.ErrConflict when an
	// unconsumed directive already exists for the target draw number.
	Create(ctx context.Context, directive *models.ForcedNumberDirective) error
	// FindPending returns the unconsumed directive for a draw without
	// consuming it (models.ErrNotFound when none exists).
	FindPending(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error)
	// Consume atomically claims the pending directive for a draw, marking it
	// consumed in the same operation. A second call for the same draw number
	// returns models.ErrNotFound.
	Consume(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error)
	FindByDrawNumber(ctx context.Context, drawNumber int64) ([]*models.ForcedNumberDirective, error)
}

// ManualOverrideRepository defines the interface for manual override state.
type ManualOverrideRepository interface {
	Upsert(ctx context.Context, override *models.ManualOverride) error
	FindByDrawNumber(ctx context.Context, drawNumber int64) (*models.ManualOverride, error)
	DeleteByDrawNumber(ctx context.Context, drawNumber int64) error
}

// DrawResultRepository defines the interface for the append-only draw history.
type DrawResultRepository interface {
	Create(ctx context.Context, result *models.DrawResult) error
	FindByDrawNumber(ctx context.Context, drawNumber int64) (*models.DrawResult, error)
	FindRecent(ctx context.Context, limit int) ([]*models.DrawResult, error)
	Count(ctx context.Context) (int64, error)
}

// BetRepository is the read interface onto the bet ledger maintained by the
// betting subsystem. The engine never writes bets.
type BetRepository interface {
	FindByDrawNumber(ctx context.Context, drawNumber int64) ([]*models.Bet, error)
}

// SettingsRepository defines the interface for engine settings (mode and
// timer interval). Get returns defaults when nothing has been stored yet.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.EngineSettings, error)
	SetMode(ctx context.Context, mode models.Mode) error
	SetInterval(ctx context.Context, seconds int) error
}

// OperatorRepository defines the interface for operator account lookups.
type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator) error
	FindByUsername(ctx context.Context, username string) (*models.Operator, error)
}
