package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
)

// ForcedNumberStore is an in-memory repositories.ForcedNumberRepository.
// Consume performs its read-and-mark under one lock acquisition, matching
// the atomic claim the MongoDB implementation gets from FindOneAndUpdate.
type ForcedNumberStore struct {
	mu         sync.Mutex
	directives []*models.ForcedNumberDirective
}

// NewForcedNumberStore creates an empty ForcedNumberStore
func NewForcedNumberStore() *ForcedNumberStore {
	return &ForcedNumberStore{}
}

var _ repositories.ForcedNumberRepository = (*ForcedNumberStore)(nil)

func (s *ForcedNumberStore) Create(ctx context.Context, directive *models.ForcedNumberDirective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.directives {
		if d.TargetDrawNumber == directive.TargetDrawNumber && !d.Consumed {
			return fmt.Errorf("%w: a pending directive already exists for draw %d", models.ErrConflict, directive.TargetDrawNumber)
		}
	}
	directive.Consumed = false
	directive.CreatedAt = time.Now()
	directive.UpdatedAt = time.Now()
	cp := *directive
	s.directives = append(s.directives, &cp)
	return nil
}

func (s *ForcedNumberStore) FindPending(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.directives {
		if d.TargetDrawNumber == drawNumber && !d.Consumed {
			cp := *d
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *ForcedNumberStore) Consume(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.directives {
		if d.TargetDrawNumber == drawNumber && !d.Consumed {
			d.Consumed = true
			d.ConsumedAt = time.Now()
			d.UpdatedAt = time.Now()
			cp := *d
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *ForcedNumberStore) FindByDrawNumber(ctx context.Context, drawNumber int64) ([]*models.ForcedNumberDirective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.ForcedNumberDirective{}
	for _, d := range s.directives {
		if d.TargetDrawNumber == drawNumber {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}
