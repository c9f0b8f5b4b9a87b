//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	pantryredis "github.com/alchemorsel/pantry/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/pantry/test/testutils"
)

func TestVideoCacheAgainstRedis(t *testing.T) {
	ctx := context.Background()
	cfg := testutils.StartRedis(t)
	log := zaptest.NewLogger(t)

	client, err := pantryredis.NewClient(ctx, cfg, log)
	require.NoError(t, err)
	defer client.Close()

	cache := pantryredis.NewVideoCache(client, cfg.KeyPrefix, time.Minute, log)

	_, found, err := cache.Get(ctx, "1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Put(ctx, "1", "https://a", time.Now()))
	require.NoError(t, cache.Put(ctx, "1", "https://b", time.Now()))

	url, found, err := cache.Get(ctx, "1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://b", url)

	ttl, err := client.TTL(ctx, cache.Key("1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	assert.ErrorIs(t, cache.Put(ctx, "1", "", time.Now()), recipe.ErrEmptyVideoURL)

	// A malformed entry is a miss
	require.NoError(t, client.Set(ctx, cache.Key("2"), "not-json", 0).Err())
	_, found, err = cache.Get(ctx, "2")
	require.NoError(t, err)
	assert.False(t, found)
}
