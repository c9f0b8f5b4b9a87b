package memory

import (
	"context"
	"sync"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// RatingRepository records ratings in memory
type RatingRepository struct {
	mu      sync.Mutex
	ratings map[string][]recipe.Rating
}

// NewRatingRepository creates an empty rating store
func NewRatingRepository() *RatingRepository {
	return &RatingRepository{ratings: make(map[string][]recipe.Rating)}
}

// Record appends a rating
func (r *RatingRepository) Record(ctx context.Context, rating recipe.Rating) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.ratings[rating.RecipeID] = append(r.ratings[rating.RecipeID], rating)
	r.mu.Unlock()
	return nil
}

// Summary aggregates every rating recorded for the recipe
func (r *RatingRepository) Summary(ctx context.Context, recipeID string) (recipe.RatingSummary, error) {
	if err := ctx.Err(); err != nil {
		return recipe.RatingSummary{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	summary := recipe.RatingSummary{RecipeID: recipeID}
	total := 0
	for _, rating := range r.ratings[recipeID] {
		total += rating.Value
		summary.Count++
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}
