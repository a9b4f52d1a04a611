package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DrawResultRepository implements repositories.DrawResultRepository on MongoDB.
type DrawResultRepository struct {
	collection *mongo.Collection
}

// NewDrawResultRepository creates a new DrawResultRepository
func NewDrawResultRepository(db *mongo.Database) repositories.DrawResultRepository {
	return &DrawResultRepository{
		collection: db.Collection("draw_results"),
	}
}

// Create appends a resolved draw to the history log
func (r *DrawResultRepository) Create(ctx context.Context, result *models.DrawResult) error {
	result.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		return err
	}
	result.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByDrawNumber finds the result for a specific draw
func (r *DrawResultRepository) FindByDrawNumber(ctx context.Context, drawNumber int64) (*models.DrawResult, error) {
	var result models.DrawResult
	err := r.collection.FindOne(ctx, bson.M{"drawNumber": drawNumber}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// FindRecent returns the latest resolved draws, newest first
func (r *DrawResultRepository) FindRecent(ctx context.Context, limit int) ([]*models.DrawResult, error) {
	opts := options.Find().SetSort(bson.M{"drawNumber": -1}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*models.DrawResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []*models.DrawResult{}
	}
	return results, nil
}

// Count returns the number of resolved draws
func (r *DrawResultRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
