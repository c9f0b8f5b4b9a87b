package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// RatingRepository implements the rating port using GORM
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

var _ outbound.RatingRepository = (*RatingRepository)(nil)

// Record inserts a rating
func (r *RatingRepository) Record(ctx context.Context, rating recipe.Rating) error {
	if err := r.db.WithContext(ctx).Create(RatingToModel(rating)).Error; err != nil {
		return fmt.Errorf("failed to record rating: %w", err)
	}
	return nil
}

// Summary aggregates the ratings of a recipe
func (r *RatingRepository) Summary(ctx context.Context, recipeID string) (recipe.RatingSummary, error) {
	var row struct {
		Count   int
		Average float64
	}

	err := r.db.WithContext(ctx).
		Model(&RatingModel{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return recipe.RatingSummary{}, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	return recipe.RatingSummary{
		RecipeID: recipeID,
		Count:    row.Count,
		Average:  row.Average,
	}, nil
}
