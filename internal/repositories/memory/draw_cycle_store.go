// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back the test suite and the no-database dev
// mode, and honor the same conditional-update semantics as the MongoDB
// implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
)

// DrawCycleStore is an in-memory repositories.DrawCycleRepository.
type DrawCycleStore struct {
	mu     sync.Mutex
	cycles map[int64]*models.DrawCycle
}

// NewDrawCycleStore creates an empty DrawCycleStore
func NewDrawCycleStore() *DrawCycleStore {
	return &DrawCycleStore{cycles: make(map[int64]*models.DrawCycle)}
}

var _ repositories.DrawCycleRepository = (*DrawCycleStore)(nil)

func (s *DrawCycleStore) Create(ctx context.Context, cycle *models.DrawCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cycles[cycle.DrawNumber]; exists {
		return models.ErrConflict
	}
	cycle.CreatedAt = time.Now()
	cycle.UpdatedAt = time.Now()
	cp := *cycle
	s.cycles[cycle.DrawNumber] = &cp
	return nil
}

func (s *DrawCycleStore) FindCurrent(ctx context.Context) (*models.DrawCycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current *models.DrawCycle
	for _, c := range s.cycles {
		if c.Live() && (current == nil || c.DrawNumber > current.DrawNumber) {
			current = c
		}
	}
	if current == nil {
		return nil, models.ErrNotFound
	}
	cp := *current
	return &cp, nil
}

func (s *DrawCycleStore) FindByNumber(ctx context.Context, drawNumber int64) (*models.DrawCycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cycles[drawNumber]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *DrawCycleStore) FindLastResolved(ctx context.Context) (*models.DrawCycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last *models.DrawCycle
	for _, c := range s.cycles {
		if c.Status == models.DrawStatusResolved && (last == nil || c.DrawNumber > last.DrawNumber) {
			last = c
		}
	}
	if last == nil {
		return nil, models.ErrNotFound
	}
	cp := *last
	return &cp, nil
}

func (s *DrawCycleStore) TransitionStatus(ctx context.Context, drawNumber int64, from, to models.DrawStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cycles[drawNumber]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	return true, nil
}

func (s *DrawCycleStore) CompleteResolution(ctx context.Context, drawNumber int64, winningNumber int, source models.ResolutionSource, resolvedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cycles[drawNumber]
	if !ok || c.Status != models.DrawStatusResolving || c.WinningNumber != nil {
		return false, nil
	}
	n := winningNumber
	c.WinningNumber = &n
	c.ResolutionSource = source
	c.Status = models.DrawStatusResolved
	c.ResolvedAt = resolvedAt
	c.UpdatedAt = time.Now()
	return true, nil
}

func (s *DrawCycleStore) SetScheduledEnd(ctx context.Context, drawNumber int64, endAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cycles[drawNumber]
	if !ok || !c.Live() {
		return false, nil
	}
	c.ScheduledEndAt = endAt
	c.UpdatedAt = time.Now()
	return true, nil
}

// LiveCount reports how many cycles are currently OPEN, LOCKED or RESOLVING.
// Exposed for invariant checks in tests.
func (s *DrawCycleStore) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, c := range s.cycles {
		if c.Live() {
			count++
		}
	}
	return count
}
