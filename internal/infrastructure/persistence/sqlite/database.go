// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
)

// SetupDatabase opens the SQLite database and migrates the schema
func SetupDatabase(dbPath string, gormLogger logger.Interface) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to :memory: gets its own database
	if strings.Contains(dbPath, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase loads the built-in recipes into an empty catalog
func SeedDatabase(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	seeded, err := gormModels.NewCatalogRepository(db).SeedIfEmpty(ctx, memory.SeedRecipes())
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	if seeded {
		log.Info("Seeded recipe catalog")
	}
	return nil
}
