package memory

import (
	"context"
	"sync"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
)

// ManualOverrideStore is an in-memory repositories.ManualOverrideRepository.
type ManualOverrideStore struct {
	mu        sync.Mutex
	overrides map[int64]*models.ManualOverride
}

// NewManualOverrideStore creates an empty ManualOverrideStore
func NewManualOverrideStore() *ManualOverrideStore {
	return &ManualOverrideStore{overrides: make(map[int64]*models.ManualOverride)}
}

var _ repositories.ManualOverrideRepository = (*ManualOverrideStore)(nil)

func (s *ManualOverrideStore) Upsert(ctx context.Context, override *models.ManualOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *override
	s.overrides[override.DrawNumber] = &cp
	return nil
}

func (s *ManualOverrideStore) FindByDrawNumber(ctx context.Context, drawNumber int64) (*models.ManualOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overrides[drawNumber]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *ManualOverrideStore) DeleteByDrawNumber(ctx context.Context, drawNumber int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, drawNumber)
	return nil
}
