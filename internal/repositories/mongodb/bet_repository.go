package mongodb

import (
	"context"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BetRepository implements the read-only repositories.BetRepository over the
// bet ledger written by the betting subsystem.
type BetRepository struct {
	collection *mongo.Collection
}

// NewBetRepository creates a new BetRepository
func NewBetRepository(db *mongo.Database) repositories.BetRepository {
	return &BetRepository{
		collection: db.Collection("bets"),
	}
}

// FindByDrawNumber lists every bet placed against a draw
func (r *BetRepository) FindByDrawNumber(ctx context.Context, drawNumber int64) ([]*models.Bet, error) {
	filter := bson.M{"drawNumber": drawNumber}
	opts := options.Find().SetSort(bson.M{"placedAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bets []*models.Bet
	if err := cursor.All(ctx, &bets); err != nil {
		return nil, err
	}
	if bets == nil {
		bets = []*models.Bet{}
	}
	return bets, nil
}
