package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the engine's invariants rely on:
// contiguous unique draw numbers, a unique history entry per draw, and at
// most one unconsumed forced-number directive per target draw.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("draw_cycles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "drawNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("draw_results").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "drawNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("forced_numbers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "targetDrawNumber", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"consumed": false}),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("bets").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "drawNumber", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("manual_overrides").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "drawNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("operators").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
