package services

import (
	"context"
	"fmt"

	"github.com/mohagy/roulette-sub003/internal/cache"
	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"github.com/mohagy/roulette-sub003/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ExposureServiceImpl implements ExposureService
var _ ExposureService = (*ExposureServiceImpl)(nil)

// ExposureServiceImpl tallies the house's payout exposure per wheel number
// and per bet category from the raw bet ledger. It is a pure read: safe to
// call repeatedly and concurrently with resolution.
type ExposureServiceImpl struct {
	betRepo repositories.BetRepository
	cache   *cache.ExposureCache // optional, nil disables caching
}

// NewExposureService creates a new ExposureServiceImpl. The cache may be nil.
func NewExposureService(betRepo repositories.BetRepository, exposureCache *cache.ExposureCache) *ExposureServiceImpl {
	return &ExposureServiceImpl{
		betRepo: betRepo,
		cache:   exposureCache,
	}
}

// Aggregate computes the exposure snapshot for a draw.
//
// A wager's full potential payout counts against every number it covers:
// the house owes that payout if any of them wins. Its stake is split evenly
// across the covered numbers so that stakes summed over the wheel equal the
// stakes summed over the raw records.
func (s *ExposureServiceImpl) Aggregate(ctx context.Context, drawNumber int64) (*models.BetAggregate, error) {
	if s.cache != nil {
		if agg, ok := s.cache.Get(ctx, drawNumber); ok {
			return agg, nil
		}
	}

	bets, err := s.betRepo.FindByDrawNumber(ctx, drawNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets for draw %d: %w", drawNumber, err)
	}

	agg := models.NewBetAggregate(drawNumber)
	for _, bet := range bets {
		agg.TotalBets++

		catStats := agg.PerCategory[bet.BetType]
		catStats.BetCount++
		catStats.TotalStake += bet.Amount
		catStats.TotalPotentialPayout += bet.PotentialReturn
		agg.PerCategory[bet.BetType] = catStats

		covered := make([]int, 0, len(bet.Numbers))
		for _, n := range bet.Numbers {
			if utils.ValidNumber(n) {
				covered = append(covered, n)
			}
		}
		if len(covered) == 0 {
			continue
		}
		stakeShare := bet.Amount / float64(len(covered))
		for _, n := range covered {
			stats := agg.PerNumber[n]
			stats.BetCount++
			stats.TotalStake += stakeShare
			stats.TotalPotentialPayout += bet.PotentialReturn
			agg.PerNumber[n] = stats
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, agg); err != nil {
			slog.Warn("Failed to cache exposure snapshot", "drawNumber", drawNumber, "error", err)
		}
	}
	return agg, nil
}
