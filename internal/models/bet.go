package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bet is a single wager from the bet ledger, read-only from the engine's
// perspective. BetType is an open string key ("straight", "split", "red",
// ...); Numbers lists every wheel number the wager covers.
type Bet struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawNumber      int64              `bson:"drawNumber" json:"drawNumber"`
	SlipID          string             `bson:"slipId" json:"slipId"`
	BetType         string             `bson:"betType" json:"betType"`
	Numbers         []int              `bson:"numbers" json:"numbers"`
	Amount          float64            `bson:"amount" json:"amount"`
	PotentialReturn float64            `bson:"potentialReturn" json:"potentialReturn"`
	PlacedAt        time.Time          `bson:"placedAt" json:"placedAt"`
}

// BetStats is the aggregate triple tracked per number and per bet category.
type BetStats struct {
	BetCount             int     `json:"betCount"`
	TotalStake           float64 `json:"totalStake"`
	TotalPotentialPayout float64 `json:"totalPotentialPayout"`
}

// BetAggregate is the derived exposure snapshot for one draw. PerNumber always
// contains all 37 wheel numbers, including those with no matching bets.
// It is advisory input to resolution, never a source of truth.
type BetAggregate struct {
	DrawNumber  int64               `json:"drawNumber"`
	TotalBets   int                 `json:"totalBets"`
	PerNumber   map[int]BetStats    `json:"perNumber"`
	PerCategory map[string]BetStats `json:"perCategory"`
}

// NewBetAggregate returns an aggregate pre-populated with zero stats for
// every wheel number.
func NewBetAggregate(drawNumber int64) *BetAggregate {
	agg := &BetAggregate{
		DrawNumber:  drawNumber,
		PerNumber:   make(map[int]BetStats, 37),
		PerCategory: make(map[string]BetStats),
	}
	for n := 0; n <= 36; n++ {
		agg.PerNumber[n] = BetStats{}
	}
	return agg
}
