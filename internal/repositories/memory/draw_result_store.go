package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
)

// DrawResultStore is an in-memory repositories.DrawResultRepository.
type DrawResultStore struct {
	mu      sync.Mutex
	results map[int64]*models.DrawResult
}

// NewDrawResultStore creates an empty DrawResultStore
func NewDrawResultStore() *DrawResultStore {
	return &DrawResultStore{results: make(map[int64]*models.DrawResult)}
}

var _ repositories.DrawResultRepository = (*DrawResultStore)(nil)

func (s *DrawResultStore) Create(ctx context.Context, result *models.DrawResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[result.DrawNumber]; exists {
		return models.ErrConflict
	}
	result.CreatedAt = time.Now()
	cp := *result
	s.results[result.DrawNumber] = &cp
	return nil
}

func (s *DrawResultStore) FindByDrawNumber(ctx context.Context, drawNumber int64) (*models.DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[drawNumber]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *DrawResultStore) FindRecent(ctx context.Context, limit int) ([]*models.DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*models.DrawResult, 0, len(s.results))
	for _, r := range s.results {
		cp := *r
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DrawNumber > all[j].DrawNumber })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *DrawResultStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.results)), nil
}
