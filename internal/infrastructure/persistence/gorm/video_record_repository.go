package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// VideoRecordRepository persists generated video URLs in recipe_videos.
// It serves as the durable video cache.
type VideoRecordRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewVideoRecordRepository creates a new video record repository. A zero
// ttl keeps records forever.
func NewVideoRecordRepository(db *gorm.DB, ttl time.Duration) *VideoRecordRepository {
	return &VideoRecordRepository{db: db, ttl: ttl, now: time.Now}
}

var _ outbound.VideoCache = (*VideoRecordRepository)(nil)

// Get returns the stored URL for a recipe
func (r *VideoRecordRepository) Get(ctx context.Context, recipeID string) (string, bool, error) {
	var model VideoRecordModel
	err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load video record: %w", err)
	}

	record := recipe.VideoRecord{RecipeID: model.RecipeID, URL: model.URL, CreatedAt: model.CreatedAt}
	if record.URL == "" || record.Expired(r.ttl, r.now()) {
		return "", false, nil
	}
	return record.URL, true, nil
}

// Put upserts the URL for a recipe; the latest write wins
func (r *VideoRecordRepository) Put(ctx context.Context, recipeID, url string, createdAt time.Time) error {
	if url == "" {
		return recipe.ErrEmptyVideoURL
	}

	model := &VideoRecordModel{RecipeID: recipeID, URL: url, CreatedAt: createdAt.UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "created_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to store video record: %w", err)
	}
	return nil
}
