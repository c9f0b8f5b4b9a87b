package recipe

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Value Objects - Immutable objects that describe aspects of the domain

// Rating bounds accepted from callers
const (
	MinRating = 1
	MaxRating = 5
)

// Ingredient represents one line of a recipe's ingredient list
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`

	// IsAvailable is a caller-side annotation and is never written back
	IsAvailable bool `json:"is_available"`
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("ingredient name is required")
	}
	return nil
}

// Display renders the ingredient as "amount unit name", collapsing
// empty parts.
func (i Ingredient) Display() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{i.Amount, i.Unit, i.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NutritionInfo contains per-serving nutritional information
type NutritionInfo struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"` // in grams
	Carbs    float64 `json:"carbs"`   // in grams
	Fat      float64 `json:"fat"`     // in grams
}

// Validate validates the nutrition values
func (n NutritionInfo) Validate() error {
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
		return errors.New("nutrition values must not be negative")
	}
	return nil
}

// Rating is a single recorded rating of a recipe
type Rating struct {
	ID        uuid.UUID `json:"id"`
	RecipeID  string    `json:"recipe_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRating creates a rating after checking the 1..5 range
func NewRating(recipeID string, value int, at time.Time) (Rating, error) {
	if strings.TrimSpace(recipeID) == "" {
		return Rating{}, ErrBlankRecipeID
	}
	if value < MinRating || value > MaxRating {
		return Rating{}, ErrInvalidRating
	}
	return Rating{
		ID:        uuid.New(),
		RecipeID:  recipeID,
		Value:     value,
		CreatedAt: at.UTC(),
	}, nil
}

// RatingSummary aggregates the ratings recorded for a recipe
type RatingSummary struct {
	RecipeID string  `json:"recipe_id"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
}

// VideoRecord associates a generated video URL with a recipe
type VideoRecord struct {
	RecipeID  string    `json:"recipe_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the record is older than ttl. A zero ttl never
// expires.
func (v VideoRecord) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(v.CreatedAt) > ttl
}
