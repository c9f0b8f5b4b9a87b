package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// VideoCache stores generated video URLs in Redis under
// "<prefix>video:<recipe id>"
type VideoCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

var _ outbound.VideoCache = (*VideoCache)(nil)

type videoEntry struct {
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewVideoCache creates a Redis video cache. A zero ttl keeps entries
// until they are overwritten.
func NewVideoCache(client redis.UniversalClient, prefix string, ttl time.Duration, logger *zap.Logger) *VideoCache {
	return &VideoCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.Named("redis-video-cache"),
	}
}

// Key returns the Redis key of a recipe's video
func (c *VideoCache) Key(recipeID string) string {
	return c.prefix + "video:" + recipeID
}

// Get returns the cached URL. A missing key is a miss, not an error.
func (c *VideoCache) Get(ctx context.Context, recipeID string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.Key(recipeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	var entry videoEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("Discarding malformed cache entry",
			zap.String("recipe_id", recipeID),
			zap.Error(err),
		)
		return "", false, nil
	}
	if entry.URL == "" {
		return "", false, nil
	}
	return entry.URL, true, nil
}

// Put stores the URL, replacing any earlier one
func (c *VideoCache) Put(ctx context.Context, recipeID, url string, createdAt time.Time) error {
	if url == "" {
		return recipe.ErrEmptyVideoURL
	}

	raw, err := json.Marshal(videoEntry{URL: url, CreatedAt: createdAt.UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.Key(recipeID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
