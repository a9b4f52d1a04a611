package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const settingsKey = "engine"

// SettingsRepository implements repositories.SettingsRepository on MongoDB,
// storing mode and timer interval in a single keyed document.
type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *mongo.Database) repositories.SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("engine_settings"),
	}
}

// Get returns the stored settings, or defaults when none have been saved yet
func (r *SettingsRepository) Get(ctx context.Context) (*models.EngineSettings, error) {
	var settings models.EngineSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": settingsKey}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.DefaultEngineSettings(), nil
		}
		return nil, err
	}
	if settings.Mode == "" {
		settings.Mode = models.ModeAutomatic
	}
	if settings.IntervalSeconds == 0 {
		settings.IntervalSeconds = models.DefaultIntervalSeconds
	}
	return &settings, nil
}

// SetMode stores the resolution mode
func (r *SettingsRepository) SetMode(ctx context.Context, mode models.Mode) error {
	return r.upsert(ctx, bson.M{"mode": mode})
}

// SetInterval stores the timer interval in seconds
func (r *SettingsRepository) SetInterval(ctx context.Context, seconds int) error {
	return r.upsert(ctx, bson.M{"intervalSeconds": seconds})
}

func (r *SettingsRepository) upsert(ctx context.Context, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	update := bson.M{
		"$set": fields,
		"$setOnInsert": bson.M{"_id": settingsKey},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": settingsKey}, update, opts)
	return err
}
