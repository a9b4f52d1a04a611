package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/utils"
)

// Compile-time check to ensure RecommendationServiceImpl implements RecommendationService
var _ RecommendationService = (*RecommendationServiceImpl)(nil)

const payoutRecommendationCap = 10

// RecommendationServiceImpl ranks candidate outcome numbers from exposure
// aggregates. Output is advisory only: applying a recommended number is
// always a separate, explicit operator action.
type RecommendationServiceImpl struct {
	exposure ExposureService
}

// NewRecommendationService creates a new RecommendationServiceImpl
func NewRecommendationService(exposure ExposureService) *RecommendationServiceImpl {
	return &RecommendationServiceImpl{exposure: exposure}
}

// Recommend produces the ranked candidate list for a strategy
func (s *RecommendationServiceImpl) Recommend(ctx context.Context, drawNumber int64, strategy models.Strategy) ([]models.Recommendation, error) {
	agg, err := s.exposure.Aggregate(ctx, drawNumber)
	if err != nil {
		return nil, err
	}

	switch strategy {
	case models.StrategyZeroExposure:
		return zeroExposure(agg), nil
	case models.StrategyMinPayout:
		return rankedByPayout(agg, true), nil
	case models.StrategyMaxPayout:
		return rankedByPayout(agg, false), nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", models.ErrInvalidRange, strategy)
}

// zeroExposure returns every number with no bets, in ascending order for a
// stable display.
func zeroExposure(agg *models.BetAggregate) []models.Recommendation {
	recs := []models.Recommendation{}
	for n := 0; n <= 36; n++ {
		stats := agg.PerNumber[n]
		if stats.BetCount == 0 {
			recs = append(recs, models.Recommendation{
				Number: n,
				Color:  utils.NumberColor(n),
				Stats:  stats,
				Reason: "no_bets",
			})
		}
	}
	return recs
}

// rankedByPayout sorts the numbers that carry bets by total potential payout,
// ties broken by ascending number, capped at ten entries.
func rankedByPayout(agg *models.BetAggregate, ascending bool) []models.Recommendation {
	reason := "lowest_payout"
	if !ascending {
		reason = "highest_payout"
	}

	recs := []models.Recommendation{}
	for n := 0; n <= 36; n++ {
		stats := agg.PerNumber[n]
		if stats.BetCount > 0 {
			recs = append(recs, models.Recommendation{
				Number: n,
				Color:  utils.NumberColor(n),
				Stats:  stats,
				Reason: reason,
			})
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		pi, pj := recs[i].Stats.TotalPotentialPayout, recs[j].Stats.TotalPotentialPayout
		if pi != pj {
			if ascending {
				return pi < pj
			}
			return pi > pj
		}
		return recs[i].Number < recs[j].Number
	})

	if len(recs) > payoutRecommendationCap {
		recs = recs[:payoutRecommendationCap]
	}
	return recs
}
