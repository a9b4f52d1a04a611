package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
)

// OperatorStore is an in-memory repositories.OperatorRepository.
type OperatorStore struct {
	mu        sync.Mutex
	operators map[string]*models.Operator
}

// NewOperatorStore creates an empty OperatorStore
func NewOperatorStore() *OperatorStore {
	return &OperatorStore{operators: make(map[string]*models.Operator)}
}

var _ repositories.OperatorRepository = (*OperatorStore)(nil)

func (s *OperatorStore) Create(ctx context.Context, operator *models.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.operators[operator.Username]; exists {
		return models.ErrConflict
	}
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = time.Now()
	cp := *operator
	s.operators[operator.Username] = &cp
	return nil
}

func (s *OperatorStore) FindByUsername(ctx context.Context, username string) (*models.Operator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.operators[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *op
	return &cp, nil
}
