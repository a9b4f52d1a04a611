package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawServiceFixture struct {
	svc       *DrawServiceImpl
	cycles    *memory.DrawCycleStore
	forced    *memory.ForcedNumberStore
	overrides *memory.ManualOverrideStore
	results   *memory.DrawResultStore
	settings  *memory.SettingsStore
	clock     *fakeClock
}

func newDrawServiceFixture(t *testing.T) *drawServiceFixture {
	t.Helper()
	f := &drawServiceFixture{
		cycles:    memory.NewDrawCycleStore(),
		forced:    memory.NewForcedNumberStore(),
		overrides: memory.NewManualOverrideStore(),
		results:   memory.NewDrawResultStore(),
		settings:  memory.NewSettingsStore(),
		clock:     newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.svc = NewDrawService(f.cycles, f.forced, f.overrides, f.results, f.settings).
		WithClock(f.clock.Now).
		WithRand(rand.New(rand.NewSource(42)))
	return f
}

// resolveCurrent resolves the draw the caller would see on screen.
func (f *drawServiceFixture) resolveCurrent(t *testing.T) *models.DrawResult {
	t.Helper()
	cycle, err := f.svc.CurrentCycle(context.Background())
	require.NoError(t, err)
	result, err := f.svc.ResolveCycle(context.Background(), cycle.DrawNumber, "test")
	require.NoError(t, err)
	return result
}

func TestEnsureCurrentCycleOpensFirstDraw(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	cycle, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cycle.DrawNumber)
	assert.Equal(t, models.DrawStatusOpen, cycle.Status)
	assert.Equal(t, f.clock.Now().Add(time.Duration(models.DefaultIntervalSeconds)*time.Second), cycle.ScheduledEndAt)

	// Idempotent while a live cycle exists.
	again, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, cycle.DrawNumber, again.DrawNumber)
	assert.Equal(t, 1, f.cycles.LiveCount())
}

func TestEnsureCurrentCycleContinuesAfterLastResolved(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	f.resolveCurrent(t)

	// Resolution already opened draw 2; a fresh Ensure keeps it.
	cycle, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cycle.DrawNumber)
}

func TestResolveForcedDirectiveWinsOverManualOverride(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.SetManualNumber(ctx, 1, 17, "op1"))
	require.NoError(t, f.forced.Create(ctx, &models.ForcedNumberDirective{
		TargetDrawNumber: 1,
		ForcedNumber:     5,
		CreatedBy:        "admin",
	}))

	result := f.resolveCurrent(t)
	require.NotNil(t, result)
	assert.Equal(t, 5, result.WinningNumber)
	assert.Equal(t, models.ResolutionSourceForced, result.Source)

	// The directive is spent.
	_, err = f.forced.FindPending(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveManualOverrideInManualMode(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.SetManualNumber(ctx, 1, 23, "op1"))

	result := f.resolveCurrent(t)
	require.NotNil(t, result)
	assert.Equal(t, 23, result.WinningNumber)
	assert.Equal(t, models.ResolutionSourceManual, result.Source)
	assert.Equal(t, "red", result.WinningColor)
}

func TestResolveIgnoresOverrideInAutomaticMode(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.SetManualNumber(ctx, 1, 23, "op1"))
	require.NoError(t, f.svc.SetMode(ctx, models.ModeAutomatic))

	result := f.resolveCurrent(t)
	require.NotNil(t, result)
	assert.Equal(t, models.ResolutionSourceAutomatic, result.Source)

	// Switching back to automatic discarded the override entirely.
	_, err = f.overrides.FindByDrawNumber(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveAutomaticStaysOnWheel(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		result := f.resolveCurrent(t)
		require.NotNil(t, result)
		assert.GreaterOrEqual(t, result.WinningNumber, 0)
		assert.LessOrEqual(t, result.WinningNumber, 36)
		assert.Equal(t, models.ResolutionSourceAutomatic, result.Source)
	}
}

func TestResolveOpensNextCycleAndKeepsSingleLive(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	for want := int64(1); want <= 5; want++ {
		current, err := f.svc.CurrentCycle(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, current.DrawNumber)
		assert.Equal(t, 1, f.cycles.LiveCount())

		f.resolveCurrent(t)
	}

	current, err := f.svc.CurrentCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), current.DrawNumber)
}

func TestConcurrentResolveProducesExactlyOneOutcome(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	// Sixteen simultaneous triggers all aimed at draw 1, as sixteen rapid
	// clicks on the same screen would be. One wins; the rest observe the
	// winner's result as a no-op instead of cascading into draw 2.
	const triggers = 16
	var wg sync.WaitGroup
	outcomes := make([]*models.DrawResult, triggers)
	for i := 0; i < triggers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := f.svc.ResolveCycle(ctx, 1, "concurrent")
			assert.NoError(t, err)
			outcomes[i] = result
		}(i)
	}
	wg.Wait()

	first, err := f.results.FindByDrawNumber(ctx, 1)
	require.NoError(t, err)
	for i, outcome := range outcomes {
		require.NotNil(t, outcome, "trigger %d must observe the committed result", i)
		assert.Equal(t, first.WinningNumber, outcome.WinningNumber)
	}

	count, err := f.results.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "draw 1 resolves exactly once")
	assert.Equal(t, 1, f.cycles.LiveCount())

	// Draw 2 opened untouched, its full betting round intact.
	current, err := f.svc.CurrentCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current.DrawNumber)
	assert.Equal(t, models.DrawStatusOpen, current.Status)
}

func TestResolveResolvedDrawIsNoOp(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	first := f.resolveCurrent(t)
	require.NotNil(t, first)

	// A second click that still carries draw 1 lands after the resolution
	// finished: it gets the existing result back and nothing else moves.
	again, err := f.svc.ResolveCycle(ctx, 1, "test")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.WinningNumber, again.WinningNumber)

	count, err := f.results.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	current, err := f.svc.CurrentCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current.DrawNumber)
	assert.Equal(t, models.DrawStatusOpen, current.Status)
}

func TestResolveSkipsInFlightResolvingAttempt(t *testing.T) {
	f := newDrawServiceFixture(t)
	f.svc.WithClock(time.Now)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	require.NoError(t, f.forced.Create(ctx, &models.ForcedNumberDirective{
		TargetDrawNumber: 1,
		ForcedNumber:     8,
	}))

	// Another process has claimed RESOLVING moments ago and is mid-attempt.
	ok, err := f.cycles.TransitionStatus(ctx, 1, models.DrawStatusOpen, models.DrawStatusLocked)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.cycles.TransitionStatus(ctx, 1, models.DrawStatusLocked, models.DrawStatusResolving)
	require.NoError(t, err)
	require.True(t, ok)

	result, err := f.svc.ResolveCycle(ctx, 1, "test")
	require.NoError(t, err)
	assert.Nil(t, result, "a fresh RESOLVING attempt must not be taken over")

	// The in-flight attempt keeps its directive.
	directive, err := f.forced.FindPending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, directive.ForcedNumber)
	cycle, err := f.cycles.FindByNumber(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusResolving, cycle.Status)
}

func TestResolveTakesOverStaleResolvingAttempt(t *testing.T) {
	f := newDrawServiceFixture(t)
	clock := newFakeClock(time.Now())
	f.svc.WithClock(clock.Now)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	require.NoError(t, f.forced.Create(ctx, &models.ForcedNumberDirective{
		TargetDrawNumber: 1,
		ForcedNumber:     8,
	}))

	ok, err := f.cycles.TransitionStatus(ctx, 1, models.DrawStatusOpen, models.DrawStatusLocked)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.cycles.TransitionStatus(ctx, 1, models.DrawStatusLocked, models.DrawStatusResolving)
	require.NoError(t, err)
	require.True(t, ok)

	// Past the stuck threshold the attempt counts as abandoned and the full
	// precedence re-runs, directive included.
	clock.Advance(31 * time.Second)
	result, err := f.svc.ResolveCycle(ctx, 1, "recovery")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 8, result.WinningNumber)
	assert.Equal(t, models.ResolutionSourceForced, result.Source)
}

func TestConcurrentResolveWithRacedTransition(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	// Simulate a competing writer that already claimed RESOLVING and
	// finished: the loser must observe the existing result, not roll again.
	ok, err := f.cycles.TransitionStatus(ctx, 1, models.DrawStatusOpen, models.DrawStatusLocked)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.cycles.TransitionStatus(ctx, 1, models.DrawStatusLocked, models.DrawStatusResolving)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.cycles.CompleteResolution(ctx, 1, 9, models.ResolutionSourceAutomatic, f.clock.Now())
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, f.results.Create(ctx, &models.DrawResult{
		DrawNumber:    1,
		WinningNumber: 9,
		WinningColor:  "red",
		Source:        models.ResolutionSourceAutomatic,
		ResolvedAt:    f.clock.Now(),
	}))

	// Draw 1 is no longer live, so a new trigger works on a fresh cycle.
	_, err = f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	current, err := f.svc.CurrentCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), current.DrawNumber)
}

func TestSetManualNumberValidation(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.SetManualNumber(ctx, 1, 37, "op1"), models.ErrInvalidRange)
	assert.ErrorIs(t, f.svc.SetManualNumber(ctx, 1, -1, "op1"), models.ErrInvalidRange)
	assert.ErrorIs(t, f.svc.SetManualNumber(ctx, 2, 10, "op1"), models.ErrConflict)
	assert.NoError(t, f.svc.SetManualNumber(ctx, 1, 0, "op1"))
}

func TestSetManualNumberSwitchesModeAtomically(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)

	settings, err := f.settings.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, models.ModeAutomatic, settings.Mode)

	require.NoError(t, f.svc.SetManualNumber(ctx, 1, 12, "op1"))

	settings, err = f.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ModeManual, settings.Mode)

	override, err := f.overrides.FindByDrawNumber(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, override.Number)
	assert.Equal(t, "op1", override.SetBy)
}

func TestSetManualNumberRejectedWhileResolving(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	_, err = f.cycles.TransitionStatus(ctx, 1, models.DrawStatusOpen, models.DrawStatusLocked)
	require.NoError(t, err)
	_, err = f.cycles.TransitionStatus(ctx, 1, models.DrawStatusLocked, models.DrawStatusResolving)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.SetManualNumber(ctx, 1, 7, "op1"), models.ErrConflict)
}

func TestSetModeValidation(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.SetMode(ctx, models.Mode("TURBO")), models.ErrInvalidRange)
	assert.NoError(t, f.svc.SetMode(ctx, models.ModeManual))
	assert.NoError(t, f.svc.SetMode(ctx, models.ModeAutomatic))
}

func TestManualOverrideClearedAfterResolution(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.SetManualNumber(ctx, 1, 31, "op1"))

	f.resolveCurrent(t)

	_, err = f.overrides.FindByDrawNumber(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Mode stays manual; the next draw resolves randomly until a new number
	// is keyed in.
	result := f.resolveCurrent(t)
	require.NotNil(t, result)
	assert.Equal(t, models.ResolutionSourceAutomatic, result.Source)
}

func TestAutomaticOutcomesCoverTheWheel(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	seen := make(map[int]int)
	for i := 0; i < 3000; i++ {
		number, source, err := f.svc.decideOutcome(ctx, int64(i))
		require.NoError(t, err)
		require.Equal(t, models.ResolutionSourceAutomatic, source)
		seen[number]++
	}

	assert.Len(t, seen, 37, "every wheel number should appear over enough trials")
	for n, count := range seen {
		assert.Greater(t, count, 20, "number %d drawn suspiciously rarely", n)
		assert.Less(t, count, 200, "number %d drawn suspiciously often", n)
	}
}

func TestGetCurrentDrawInfoSnapshot(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	require.NoError(t, f.forced.Create(ctx, &models.ForcedNumberDirective{
		TargetDrawNumber: 1,
		ForcedNumber:     0,
	}))
	f.resolveCurrent(t)

	f.clock.Advance(30 * time.Second)

	info, err := f.svc.GetCurrentDrawInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.DrawNumber)
	assert.Equal(t, models.DrawStatusOpen, info.Status)
	assert.True(t, info.Synced)
	assert.Equal(t, int64(models.DefaultIntervalSeconds-30), info.RemainingSeconds)
	require.NotNil(t, info.LastWinningNumber)
	assert.Equal(t, 0, *info.LastWinningNumber)
	assert.Equal(t, "green", info.LastWinningColor)
	require.Len(t, info.UpcomingDraws, 10)
	assert.Equal(t, int64(3), info.UpcomingDraws[0].DrawNumber)
	for i := 1; i < len(info.UpcomingDraws); i++ {
		gap := info.UpcomingDraws[i].ScheduledAt.Sub(info.UpcomingDraws[i-1].ScheduledAt)
		assert.Equal(t, time.Duration(models.DefaultIntervalSeconds)*time.Second, gap)
	}
}

func TestGetRecentResultsNewestFirst(t *testing.T) {
	f := newDrawServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.EnsureCurrentCycle(ctx)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		f.resolveCurrent(t)
	}

	results, err := f.svc.GetRecentResults(ctx, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(5), results[0].DrawNumber)
	assert.Equal(t, int64(4), results[1].DrawNumber)
	assert.Equal(t, int64(3), results[2].DrawNumber)
}
