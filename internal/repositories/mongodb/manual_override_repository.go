package mongodb

import (
	"context"
	"errors"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ManualOverrideRepository implements repositories.ManualOverrideRepository on MongoDB.
type ManualOverrideRepository struct {
	collection *mongo.Collection
}

// NewManualOverrideRepository creates a new ManualOverrideRepository
func NewManualOverrideRepository(db *mongo.Database) repositories.ManualOverrideRepository {
	return &ManualOverrideRepository{
		collection: db.Collection("manual_overrides"),
	}
}

// Upsert stores the override for a draw, replacing any previous value
func (r *ManualOverrideRepository) Upsert(ctx context.Context, override *models.ManualOverride) error {
	filter := bson.M{"drawNumber": override.DrawNumber}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, override, opts)
	return err
}

// FindByDrawNumber finds the override for a draw
func (r *ManualOverrideRepository) FindByDrawNumber(ctx context.Context, drawNumber int64) (*models.ManualOverride, error) {
	var override models.ManualOverride
	err := r.collection.FindOne(ctx, bson.M{"drawNumber": drawNumber}).Decode(&override)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &override, nil
}

// DeleteByDrawNumber removes the override for a draw, if any
func (r *ManualOverrideRepository) DeleteByDrawNumber(ctx context.Context, drawNumber int64) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"drawNumber": drawNumber})
	return err
}
