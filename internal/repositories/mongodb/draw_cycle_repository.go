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

// DrawCycleRepository implements repositories.DrawCycleRepository on MongoDB.
type DrawCycleRepository struct {
	collection *mongo.Collection
}

// NewDrawCycleRepository creates a new DrawCycleRepository
func NewDrawCycleRepository(db *mongo.Database) repositories.DrawCycleRepository {
	return &DrawCycleRepository{
		collection: db.Collection("draw_cycles"),
	}
}

// Create inserts a new draw cycle
func (r *DrawCycleRepository) Create(ctx context.Context, cycle *models.DrawCycle) error {
	cycle.CreatedAt = time.Now()
	cycle.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, cycle)
	if err != nil {
		return err
	}
	cycle.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindCurrent finds the single live cycle (OPEN, LOCKED or RESOLVING)
func (r *DrawCycleRepository) FindCurrent(ctx context.Context) (*models.DrawCycle, error) {
	filter := bson.M{"status": bson.M{"$in": models.LiveStatuses()}}
	opts := options.FindOne().SetSort(bson.M{"drawNumber": -1})

	var cycle models.DrawCycle
	err := r.collection.FindOne(ctx, filter, opts).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// FindByNumber finds a cycle by draw number
func (r *DrawCycleRepository) FindByNumber(ctx context.Context, drawNumber int64) (*models.DrawCycle, error) {
	var cycle models.DrawCycle
	err := r.collection.FindOne(ctx, bson.M{"drawNumber": drawNumber}).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// FindLastResolved finds the highest-numbered RESOLVED cycle
func (r *DrawCycleRepository) FindLastResolved(ctx context.Context) (*models.DrawCycle, error) {
	filter := bson.M{"status": models.DrawStatusResolved}
	opts := options.FindOne().SetSort(bson.M{"drawNumber": -1})

	var cycle models.DrawCycle
	err := r.collection.FindOne(ctx, filter, opts).Decode(&cycle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// TransitionStatus moves a cycle between statuses with a conditional update.
// The filter on the source status makes the transition succeed for exactly
// one of any number of concurrent callers.
func (r *DrawCycleRepository) TransitionStatus(ctx context.Context, drawNumber int64, from, to models.DrawStatus) (bool, error) {
	filter := bson.M{"drawNumber": drawNumber, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// CompleteResolution writes the outcome and closes the cycle in one
// conditional update. Matching on a missing winningNumber keeps the outcome
// write-once even across retried resolution attempts.
func (r *DrawCycleRepository) CompleteResolution(ctx context.Context, drawNumber int64, winningNumber int, source models.ResolutionSource, resolvedAt time.Time) (bool, error) {
	filter := bson.M{
		"drawNumber":    drawNumber,
		"status":        models.DrawStatusResolving,
		"winningNumber": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"status":           models.DrawStatusResolved,
		"winningNumber":    winningNumber,
		"resolutionSource": source,
		"resolvedAt":       resolvedAt,
		"updatedAt":        time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// SetScheduledEnd fixes the absolute end timestamp of a live cycle
func (r *DrawCycleRepository) SetScheduledEnd(ctx context.Context, drawNumber int64, endAt time.Time) (bool, error) {
	filter := bson.M{
		"drawNumber": drawNumber,
		"status":     bson.M{"$in": models.LiveStatuses()},
	}
	update := bson.M{"$set": bson.M{"scheduledEndAt": endAt, "updatedAt": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}
