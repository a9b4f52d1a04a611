package services

import (
	"context"
	"testing"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecommendationService(bets *memory.BetStore) *RecommendationServiceImpl {
	return NewRecommendationService(NewExposureService(bets, nil))
}

func TestZeroExposureListsUncoveredNumbersAscending(t *testing.T) {
	bets := memory.NewBetStore()
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{5}, Amount: 10, PotentialReturn: 360})
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "split", Numbers: []int{20, 21}, Amount: 4, PotentialReturn: 72})
	svc := newTestRecommendationService(bets)

	recs, err := svc.Recommend(context.Background(), 1, models.StrategyZeroExposure)
	require.NoError(t, err)
	require.Len(t, recs, 34)

	last := -1
	for _, rec := range recs {
		assert.Greater(t, rec.Number, last, "recommendations must be ascending")
		assert.NotContains(t, []int{5, 20, 21}, rec.Number)
		assert.Equal(t, "no_bets", rec.Reason)
		assert.Zero(t, rec.Stats.BetCount)
		last = rec.Number
	}
}

func TestZeroExposureEmptyWhenWheelFullyCovered(t *testing.T) {
	bets := memory.NewBetStore()
	for n := 0; n <= 36; n++ {
		bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{n}, Amount: 1, PotentialReturn: 36})
	}
	svc := newTestRecommendationService(bets)

	recs, err := svc.Recommend(context.Background(), 1, models.StrategyZeroExposure)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestMinPayoutRanksAscendingWithNumberTieBreak(t *testing.T) {
	bets := memory.NewBetStore()
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{10}, Amount: 10, PotentialReturn: 360})
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{3}, Amount: 1, PotentialReturn: 36})
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{7}, Amount: 1, PotentialReturn: 36})
	svc := newTestRecommendationService(bets)

	recs, err := svc.Recommend(context.Background(), 1, models.StrategyMinPayout)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 3, recs[0].Number, "equal payouts tie-break by ascending number")
	assert.Equal(t, 7, recs[1].Number)
	assert.Equal(t, 10, recs[2].Number)
	for _, rec := range recs {
		assert.Equal(t, "lowest_payout", rec.Reason)
	}
}

func TestMaxPayoutRanksDescending(t *testing.T) {
	bets := memory.NewBetStore()
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{10}, Amount: 10, PotentialReturn: 360})
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{3}, Amount: 1, PotentialReturn: 36})
	svc := newTestRecommendationService(bets)

	recs, err := svc.Recommend(context.Background(), 1, models.StrategyMaxPayout)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 10, recs[0].Number)
	assert.Equal(t, 3, recs[1].Number)
	for _, rec := range recs {
		assert.Equal(t, "highest_payout", rec.Reason)
	}
}

func TestPayoutStrategiesCapAtTen(t *testing.T) {
	bets := memory.NewBetStore()
	for n := 0; n <= 36; n++ {
		bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{n}, Amount: float64(n + 1), PotentialReturn: float64((n + 1) * 36)})
	}
	svc := newTestRecommendationService(bets)

	recs, err := svc.Recommend(context.Background(), 1, models.StrategyMinPayout)
	require.NoError(t, err)
	require.Len(t, recs, 10)
	assert.Equal(t, 0, recs[0].Number)
	assert.Equal(t, 9, recs[9].Number)

	recs, err = svc.Recommend(context.Background(), 1, models.StrategyMaxPayout)
	require.NoError(t, err)
	require.Len(t, recs, 10)
	assert.Equal(t, 36, recs[0].Number)
	assert.Equal(t, 27, recs[9].Number)
}

func TestRecommendUnknownStrategy(t *testing.T) {
	svc := newTestRecommendationService(memory.NewBetStore())

	_, err := svc.Recommend(context.Background(), 1, models.Strategy("LUCKY_DIP"))
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestRecommendationColors(t *testing.T) {
	bets := memory.NewBetStore()
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{0}, Amount: 1, PotentialReturn: 36})
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{1}, Amount: 1, PotentialReturn: 36})
	bets.Add(&models.Bet{DrawNumber: 1, BetType: "straight", Numbers: []int{2}, Amount: 1, PotentialReturn: 36})
	svc := newTestRecommendationService(bets)

	recs, err := svc.Recommend(context.Background(), 1, models.StrategyMinPayout)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "green", recs[0].Color)
	assert.Equal(t, "red", recs[1].Color)
	assert.Equal(t, "black", recs[2].Color)
}
