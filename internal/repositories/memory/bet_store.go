package memory

import (
	"context"
	"sync"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
)

// BetStore is an in-memory repositories.BetRepository. Add seeds the ledger;
// the engine itself only reads.
type BetStore struct {
	mu   sync.Mutex
	bets []*models.Bet
}

// NewBetStore creates an empty BetStore
func NewBetStore() *BetStore {
	return &BetStore{}
}

var _ repositories.BetRepository = (*BetStore)(nil)

// Add seeds a bet into the ledger
func (s *BetStore) Add(bet *models.Bet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *bet
	s.bets = append(s.bets, &cp)
}

func (s *BetStore) FindByDrawNumber(ctx context.Context, drawNumber int64) ([]*models.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Bet{}
	for _, b := range s.bets {
		if b.DrawNumber == drawNumber {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}
