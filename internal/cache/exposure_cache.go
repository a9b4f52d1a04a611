package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

// exposureTTL keeps snapshots fresh enough for an operator polling the
// exposure board while the draw is still taking bets.
const exposureTTL = 2 * time.Second

// ExposureCache stores exposure snapshots in Redis keyed by draw number.
// All failures degrade to a cache miss so Redis is never on the critical path.
type ExposureCache struct {
	client *redis.Client
}

// NewExposureCache creates a new ExposureCache
func NewExposureCache(client *redis.Client) *ExposureCache {
	return &ExposureCache{client: client}
}

func exposureKey(drawNumber int64) string {
	return fmt.Sprintf("exposure:draw:%d", drawNumber)
}

// Get returns the cached snapshot for a draw, or ok=false on miss or error
func (c *ExposureCache) Get(ctx context.Context, drawNumber int64) (*models.BetAggregate, bool) {
	data, err := c.client.Get(ctx, exposureKey(drawNumber)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Exposure cache read failed", "drawNumber", drawNumber, "error", err)
		}
		return nil, false
	}
	var agg models.BetAggregate
	if err := json.Unmarshal(data, &agg); err != nil {
		slog.Warn("Exposure cache entry corrupt", "drawNumber", drawNumber, "error", err)
		return nil, false
	}
	return &agg, true
}

// Set stores a snapshot with a short TTL
func (c *ExposureCache) Set(ctx context.Context, agg *models.BetAggregate) error {
	data, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to encode exposure snapshot: %w", err)
	}
	return c.client.Set(ctx, exposureKey(agg.DrawNumber), data, exposureTTL).Err()
}

// Invalidate drops the cached snapshot for a draw
func (c *ExposureCache) Invalidate(ctx context.Context, drawNumber int64) {
	if err := c.client.Del(ctx, exposureKey(drawNumber)).Err(); err != nil {
		slog.Warn("Exposure cache invalidation failed", "drawNumber", drawNumber, "error", err)
	}
}
