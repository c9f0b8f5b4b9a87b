//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	gormrepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/pantry/test/testutils"
)

func TestPostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	pg := testutils.StartPostgres(t)

	// Schema
	migrator, err := migrations.Open(pg.Config, logger)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Up(), "second run is a no-op")

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
	require.NoError(t, migrator.Close())

	// Repositories
	db, err := postgres.Connect(ctx, pg.Config, "warn", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	catalog := gormrepo.NewCatalogRepository(db)
	seeded, err := catalog.SeedIfEmpty(ctx, memory.SeedRecipes())
	require.NoError(t, err)
	assert.True(t, seeded)

	all, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, memory.SeedRecipes(), all)

	ratings := gormrepo.NewRatingRepository(db)
	factory := testutils.NewRecipeFactory(5)
	for _, v := range []int{5, 3} {
		r := factory.NewRating("2")
		r.Value = v
		require.NoError(t, ratings.Record(ctx, r))
	}
	summary, err := ratings.Summary(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 4.0, summary.Average, 0.0001)

	videos := gormrepo.NewVideoRecordRepository(db, time.Hour)
	require.NoError(t, videos.Put(ctx, "2", "https://cdn.example.com/2.mp4", time.Now()))
	url, found, err := videos.Get(ctx, "2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://cdn.example.com/2.mp4", url)
}
