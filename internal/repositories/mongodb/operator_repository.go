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
)

// OperatorRepository implements repositories.OperatorRepository on MongoDB.
type OperatorRepository struct {
	collection *mongo.Collection
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db *mongo.Database) repositories.OperatorRepository {
	return &OperatorRepository{
		collection: db.Collection("operators"),
	}
}

// Create inserts a new operator account
func (r *OperatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, operator)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrConflict
		}
		return err
	}
	operator.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByUsername finds an operator by username
func (r *OperatorRepository) FindByUsername(ctx context.Context, username string) (*models.Operator, error) {
	var operator models.Operator
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&operator)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &operator, nil
}
