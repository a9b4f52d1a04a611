package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"github.com/mohagy/roulette-sub003/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

const upcomingDrawCount = 10

// DrawServiceImpl drives the draw cycle state machine
// (OPEN -> LOCKED -> RESOLVING -> RESOLVED -> next cycle OPEN).
//
// At-most-once resolution rests on two layers: conditional status updates in
// the repository, which let exactly one writer win the LOCKED -> RESOLVING
// transition, and a process-local mutex that serializes operator actions
// against an in-flight resolution so a manual override landing mid-resolution
// is either honored or cleanly superseded, never half-applied.
type DrawServiceImpl struct {
	cycleRepo    repositories.DrawCycleRepository
	forcedRepo   repositories.ForcedNumberRepository
	overrideRepo repositories.ManualOverrideRepository
	resultRepo   repositories.DrawResultRepository
	settingsRepo repositories.SettingsRepository

	mu  sync.Mutex
	now func() time.Time
	rng *rand.Rand

	resolveAttempts int
	retryBackoff    time.Duration
	// stuckThreshold is how long a cycle may sit in RESOLVING before a new
	// trigger treats the previous attempt as abandoned and re-runs it.
	stuckThreshold time.Duration
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	cycleRepo repositories.DrawCycleRepository,
	forcedRepo repositories.ForcedNumberRepository,
	overrideRepo repositories.ManualOverrideRepository,
	resultRepo repositories.DrawResultRepository,
	settingsRepo repositories.SettingsRepository,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		cycleRepo:       cycleRepo,
		forcedRepo:      forcedRepo,
		overrideRepo:    overrideRepo,
		resultRepo:      resultRepo,
		settingsRepo:    settingsRepo,
		now:             time.Now,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		resolveAttempts: 3,
		retryBackoff:    200 * time.Millisecond,
		stuckThreshold:  30 * time.Second,
	}
}

// WithStuckThreshold overrides how long a RESOLVING cycle is considered
// in progress before a retry takes it over.
func (s *DrawServiceImpl) WithStuckThreshold(d time.Duration) *DrawServiceImpl {
	s.stuckThreshold = d
	return s
}

// WithClock replaces the wall clock, for tests.
func (s *DrawServiceImpl) WithClock(now func() time.Time) *DrawServiceImpl {
	s.now = now
	return s
}

// WithRand replaces the random source, for tests.
func (s *DrawServiceImpl) WithRand(rng *rand.Rand) *DrawServiceImpl {
	s.rng = rng
	return s
}

// EnsureCurrentCycle opens a fresh cycle when none is live. Recovery after a
// crash needs nothing more: the surviving cycle carries its absolute end
// timestamp, and an expired one resolves on the next scheduler tick.
func (s *DrawServiceImpl) EnsureCurrentCycle(ctx context.Context) (*models.DrawCycle, error) {
	current, err := s.cycleRepo.FindCurrent(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for live cycle: %w", err)
	}

	next := int64(1)
	last, err := s.cycleRepo.FindLastResolved(ctx)
	if err == nil {
		next = last.DrawNumber + 1
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to find last resolved cycle: %w", err)
	}

	cycle, err := s.openCycle(ctx, next)
	if err != nil {
		return nil, err
	}
	slog.Info("Opened draw cycle", "drawNumber", cycle.DrawNumber, "endAt", cycle.ScheduledEndAt)
	return cycle, nil
}

// CurrentCycle returns the single live cycle
func (s *DrawServiceImpl) CurrentCycle(ctx context.Context) (*models.DrawCycle, error) {
	return s.cycleRepo.FindCurrent(ctx)
}

// LockCurrentCycle moves the live cycle from OPEN to LOCKED
func (s *DrawServiceImpl) LockCurrentCycle(ctx context.Context) error {
	cycle, err := s.cycleRepo.FindCurrent(ctx)
	if err != nil {
		return err
	}
	if cycle.Status != models.DrawStatusOpen {
		return nil
	}
	ok, err := s.cycleRepo.TransitionStatus(ctx, cycle.DrawNumber, models.DrawStatusOpen, models.DrawStatusLocked)
	if err != nil {
		return fmt.Errorf("failed to lock cycle %d: %w", cycle.DrawNumber, err)
	}
	if ok {
		slog.Info("Draw cycle locked", "drawNumber", cycle.DrawNumber)
	}
	return nil
}

// ResolveCycle runs one resolution attempt for the named draw. Acting on the
// draw number the caller observed, not on "whatever is current", keeps a
// second trigger that lands after the first one finished from cascading into
// the freshly opened next draw.
func (s *DrawServiceImpl) ResolveCycle(ctx context.Context, drawNumber int64, trigger string) (*models.DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, err := s.cycleRepo.FindByNumber(ctx, drawNumber)
	if err != nil {
		return nil, err
	}
	if cycle.Status == models.DrawStatusResolved {
		if result, err := s.resultRepo.FindByDrawNumber(ctx, cycle.DrawNumber); err == nil {
			return result, nil
		}
		return nil, nil
	}

	// A cycle still OPEN is locked first; the resolver never resolves OPEN.
	if cycle.Status == models.DrawStatusOpen {
		if _, err := s.cycleRepo.TransitionStatus(ctx, cycle.DrawNumber, models.DrawStatusOpen, models.DrawStatusLocked); err != nil {
			return nil, fmt.Errorf("failed to lock cycle %d: %w", cycle.DrawNumber, err)
		}
		cycle.Status = models.DrawStatusLocked
	}

	switch cycle.Status {
	case models.DrawStatusLocked:
		ok, err := s.cycleRepo.TransitionStatus(ctx, cycle.DrawNumber, models.DrawStatusLocked, models.DrawStatusResolving)
		if err != nil {
			return nil, fmt.Errorf("failed to enter RESOLVING for cycle %d: %w", cycle.DrawNumber, err)
		}
		if !ok {
			// Another trigger won the transition. Report its result if it
			// already finished, otherwise no-op.
			if result, err := s.resultRepo.FindByDrawNumber(ctx, cycle.DrawNumber); err == nil {
				return result, nil
			}
			slog.Info("Resolution already in progress", "drawNumber", cycle.DrawNumber, "trigger", trigger)
			return nil, nil
		}
	case models.DrawStatusResolving:
		// Another writer may still be mid-attempt. Only a RESOLVING state that
		// has gone stale is treated as abandoned and re-run from precedence
		// step 1; a younger one is in progress and must not have its forced
		// directive stolen out from under it.
		if s.now().Sub(cycle.UpdatedAt) <= s.stuckThreshold {
			if result, err := s.resultRepo.FindByDrawNumber(ctx, cycle.DrawNumber); err == nil {
				return result, nil
			}
			slog.Info("Resolution already in progress", "drawNumber", cycle.DrawNumber, "trigger", trigger)
			return nil, nil
		}
		slog.Warn("Retrying resolution of cycle left in RESOLVING", "drawNumber", cycle.DrawNumber, "trigger", trigger)
	}

	number, source, err := s.decideOutcome(ctx, cycle.DrawNumber)
	if err != nil {
		return nil, err
	}

	// The chosen number is pinned for the remainder of this attempt: persist
	// retries below never re-roll it.
	resolvedAt := s.now()
	var committed bool
	for attempt := 1; attempt <= s.resolveAttempts; attempt++ {
		committed, err = s.cycleRepo.CompleteResolution(ctx, cycle.DrawNumber, number, source, resolvedAt)
		if err == nil {
			break
		}
		slog.Warn("Failed to persist resolution, retrying",
			"drawNumber", cycle.DrawNumber, "attempt", attempt, "error", err)
		if attempt < s.resolveAttempts {
			time.Sleep(s.retryBackoff)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: could not persist outcome for draw %d: %v",
			models.ErrPersistenceFailure, cycle.DrawNumber, err)
	}
	if !committed {
		// The conditional update matched nothing: the cycle already holds an
		// outcome from a competing writer.
		if result, err := s.resultRepo.FindByDrawNumber(ctx, cycle.DrawNumber); err == nil {
			return result, nil
		}
		return nil, nil
	}

	result := &models.DrawResult{
		DrawNumber:    cycle.DrawNumber,
		WinningNumber: number,
		WinningColor:  utils.NumberColor(number),
		Source:        source,
		ResolvedAt:    resolvedAt,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		// The cycle itself carries the outcome; a failed history append
		// degrades statistics but must not fail the resolution.
		slog.Error("Failed to append draw history", "drawNumber", cycle.DrawNumber, "error", err)
	}
	if err := s.overrideRepo.DeleteByDrawNumber(ctx, cycle.DrawNumber); err != nil {
		slog.Error("Failed to clear manual override", "drawNumber", cycle.DrawNumber, "error", err)
	}

	if _, err := s.openCycle(ctx, cycle.DrawNumber+1); err != nil {
		// The scheduler re-opens a cycle on its next tick via
		// EnsureCurrentCycle, so log rather than fail the resolution.
		slog.Error("Failed to open next cycle", "drawNumber", cycle.DrawNumber+1, "error", err)
	}

	slog.Info("Draw resolved",
		"drawNumber", cycle.DrawNumber,
		"winningNumber", number,
		"source", source,
		"trigger", trigger)
	return result, nil
}

// decideOutcome applies the resolution precedence: forced directive first,
// manual override while in manual mode second, uniform random last.
func (s *DrawServiceImpl) decideOutcome(ctx context.Context, drawNumber int64) (int, models.ResolutionSource, error) {
	directive, err := s.forcedRepo.Consume(ctx, drawNumber)
	if err == nil {
		slog.Info("Applying forced number directive",
			"drawNumber", drawNumber, "number", directive.ForcedNumber, "createdBy", directive.CreatedBy)
		return directive.ForcedNumber, models.ResolutionSourceForced, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return 0, "", fmt.Errorf("failed to consume forced directive: %w", err)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("failed to load engine settings: %w", err)
	}
	if settings.Mode == models.ModeManual {
		override, err := s.overrideRepo.FindByDrawNumber(ctx, drawNumber)
		if err == nil {
			slog.Info("Applying manual override",
				"drawNumber", drawNumber, "number", override.Number, "setBy", override.SetBy)
			return override.Number, models.ResolutionSourceManual, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return 0, "", fmt.Errorf("failed to read manual override: %w", err)
		}
	}

	return s.rng.Intn(utils.WheelSize), models.ResolutionSourceAutomatic, nil
}

// openCycle creates the next cycle with a fresh end timestamp computed from
// the interval in force at creation time.
func (s *DrawServiceImpl) openCycle(ctx context.Context, drawNumber int64) (*models.DrawCycle, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}
	cycle := &models.DrawCycle{
		DrawNumber:      drawNumber,
		Status:          models.DrawStatusOpen,
		ScheduledEndAt:  s.now().Add(time.Duration(settings.IntervalSeconds) * time.Second),
		IntervalSeconds: settings.IntervalSeconds,
	}
	if err := s.cycleRepo.Create(ctx, cycle); err != nil {
		return nil, fmt.Errorf("failed to create cycle %d: %w", drawNumber, err)
	}
	return cycle, nil
}

// SetManualNumber records a manual override for the currently open draw. The
// mode switch and the override write are one combined operation so there is
// no window where the number is set but the mode still says automatic.
func (s *DrawServiceImpl) SetManualNumber(ctx context.Context, drawNumber int64, number int, setBy string) error {
	if !utils.ValidNumber(number) {
		return fmt.Errorf("%w: winning number must be between 0 and 36", models.ErrInvalidRange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, err := s.cycleRepo.FindCurrent(ctx)
	if err != nil {
		return err
	}
	if cycle.DrawNumber != drawNumber {
		return fmt.Errorf("%w: draw %d is not the current draw (current is %d)",
			models.ErrConflict, drawNumber, cycle.DrawNumber)
	}
	if cycle.Status == models.DrawStatusResolving {
		return fmt.Errorf("%w: draw %d is already resolving", models.ErrConflict, drawNumber)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load engine settings: %w", err)
	}
	if settings.Mode != models.ModeManual {
		if err := s.settingsRepo.SetMode(ctx, models.ModeManual); err != nil {
			return fmt.Errorf("failed to switch to manual mode: %w", err)
		}
		slog.Info("Mode switched to MANUAL by manual number entry", "setBy", setBy)
	}

	override := &models.ManualOverride{
		DrawNumber: drawNumber,
		Number:     number,
		SetBy:      setBy,
		SetAt:      s.now(),
	}
	if err := s.overrideRepo.Upsert(ctx, override); err != nil {
		return fmt.Errorf("failed to store manual override: %w", err)
	}
	slog.Info("Manual override set", "drawNumber", drawNumber, "number", number, "setBy", setBy)
	return nil
}

// SetMode switches the resolution mode. Switching back to AUTOMATIC discards
// any manual override for the open draw: an override only lives as long as
// the operator stays in manual mode.
func (s *DrawServiceImpl) SetMode(ctx context.Context, mode models.Mode) error {
	if mode != models.ModeAutomatic && mode != models.ModeManual {
		return fmt.Errorf("%w: unknown mode %q", models.ErrInvalidRange, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.settingsRepo.SetMode(ctx, mode); err != nil {
		return fmt.Errorf("failed to store mode: %w", err)
	}
	if mode == models.ModeAutomatic {
		cycle, err := s.cycleRepo.FindCurrent(ctx)
		if err == nil {
			if err := s.overrideRepo.DeleteByDrawNumber(ctx, cycle.DrawNumber); err != nil {
				slog.Error("Failed to clear manual override on mode switch", "drawNumber", cycle.DrawNumber, "error", err)
			}
		} else if !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to check current cycle: %w", err)
		}
	}
	slog.Info("Mode switched", "mode", mode)
	return nil
}

// GetCurrentDrawInfo assembles the snapshot served to consoles and displays
func (s *DrawServiceImpl) GetCurrentDrawInfo(ctx context.Context) (*models.CurrentDrawInfo, error) {
	cycle, err := s.cycleRepo.FindCurrent(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}

	info := &models.CurrentDrawInfo{
		DrawNumber: cycle.DrawNumber,
		Status:     cycle.Status,
		Mode:       settings.Mode,
		Synced:     !cycle.ScheduledEndAt.IsZero(),
	}
	if info.Synced {
		remaining := cycle.ScheduledEndAt.Sub(s.now())
		if remaining > 0 {
			info.RemainingSeconds = int64(remaining.Seconds())
		}
	}

	recent, err := s.resultRepo.FindRecent(ctx, upcomingDrawCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent results: %w", err)
	}
	info.RecentResults = recent
	if len(recent) > 0 {
		n := recent[0].WinningNumber
		info.LastWinningNumber = &n
		info.LastWinningColor = recent[0].WinningColor
	}

	interval := time.Duration(settings.IntervalSeconds) * time.Second
	info.UpcomingDraws = make([]models.UpcomingDraw, 0, upcomingDrawCount)
	for i := 0; i < upcomingDrawCount; i++ {
		info.UpcomingDraws = append(info.UpcomingDraws, models.UpcomingDraw{
			DrawNumber:  cycle.DrawNumber + int64(i+1),
			ScheduledAt: cycle.ScheduledEndAt.Add(time.Duration(i+1) * interval),
		})
	}
	return info, nil
}

// GetRecentResults returns the latest resolved draws, newest first
func (s *DrawServiceImpl) GetRecentResults(ctx context.Context, limit int) ([]*models.DrawResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.resultRepo.FindRecent(ctx, limit)
}
