package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ForcedNumberRepository implements repositories.ForcedNumberRepository on
// MongoDB. A partial unique index on (targetDrawNumber, consumed=false)
// backs the one-unconsumed-directive-per-draw invariant; see EnsureIndexes.
type ForcedNumberRepository struct {
	collection *mongo.Collection
}

// NewForcedNumberRepository creates a new ForcedNumberRepository
func NewForcedNumberRepository(db *mongo.Database) repositories.ForcedNumberRepository {
	return &ForcedNumberRepository{
		collection: db.Collection("forced_numbers"),
	}
}

// Create stores a directive, rejecting a duplicate unconsumed directive for
// the same target draw with models.ErrConflict.
func (r *ForcedNumberRepository) Create(ctx context.Context, directive *models.ForcedNumberDirective) error {
	directive.Consumed = false
	directive.CreatedAt = time.Now()
	directive.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, directive)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: a pending directive already exists for draw %d", models.ErrConflict, directive.TargetDrawNumber)
		}
		return err
	}
	directive.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindPending returns the unconsumed directive for a draw without consuming it
func (r *ForcedNumberRepository) FindPending(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error) {
	filter := bson.M{"targetDrawNumber": drawNumber, "consumed": false}

	var directive models.ForcedNumberDirective
	err := r.collection.FindOne(ctx, filter).Decode(&directive)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &directive, nil
}

// Consume claims the pending directive for a draw. FindOneAndUpdate makes the
// read and the consumed mark a single atomic operation, so a retried
// resolution attempt can never apply the same directive twice.
func (r *ForcedNumberRepository) Consume(ctx context.Context, drawNumber int64) (*models.ForcedNumberDirective, error) {
	filter := bson.M{"targetDrawNumber": drawNumber, "consumed": false}
	update := bson.M{"$set": bson.M{
		"consumed":   true,
		"consumedAt": time.Now(),
		"updatedAt":  time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var directive models.ForcedNumberDirective
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&directive)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &directive, nil
}

// FindByDrawNumber returns every directive recorded for a draw, consumed ones
// included (audit trail).
func (r *ForcedNumberRepository) FindByDrawNumber(ctx context.Context, drawNumber int64) ([]*models.ForcedNumberDirective, error) {
	filter := bson.M{"targetDrawNumber": drawNumber}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var directives []*models.ForcedNumberDirective
	if err := cursor.All(ctx, &directives); err != nil {
		return nil, err
	}
	if directives == nil {
		directives = []*models.ForcedNumberDirective{}
	}
	return directives, nil
}
