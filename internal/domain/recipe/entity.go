// Package recipe contains the core domain model for the recipe catalog.
// Recipes are immutable snapshots: every accessor that hands a recipe out
// of a store returns a copy, so callers may annotate it freely.
package recipe

import (
	"fmt"
	"strings"
)

// Recipe is a catalog entry with everything the detail view renders.
type Recipe struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	ImageURL     string       `json:"image_url"`

	// VideoURL is empty until a video has been resolved for the recipe.
	VideoURL string `json:"video_url,omitempty"`

	// Timing in minutes
	PrepTime int `json:"prep_time"`
	CookTime int `json:"cook_time"`
	Servings int `json:"servings"`

	NutritionInfo

	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

// Validate checks the invariants a catalog entry must hold
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrBlankRecipeID
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRecipe)
	}
	if r.PrepTime < 0 || r.CookTime < 0 || r.Servings < 0 {
		return fmt.Errorf("%w: timings and servings must not be negative", ErrInvalidRecipe)
	}
	if err := r.NutritionInfo.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}
	if r.Rating < 0 || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating %.1f outside [0,%d]", ErrInvalidRecipe, r.Rating, MaxRating)
	}
	if r.Reviews < 0 {
		return fmt.Errorf("%w: reviews must not be negative", ErrInvalidRecipe)
	}
	for _, ing := range r.Ingredients {
		if err := ing.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
		}
	}
	return nil
}

// TotalTime returns prep plus cook time in minutes
func (r Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// HasVideo reports whether a video URL has been attached
func (r Recipe) HasVideo() bool {
	return r.VideoURL != ""
}

// WithVideoURL returns a copy carrying the given video URL. An empty URL
// never clears one that is already set.
func (r Recipe) WithVideoURL(url string) Recipe {
	c := r.Clone()
	if url != "" {
		c.VideoURL = url
	}
	return c
}

// Clone returns a deep copy of the recipe
func (r Recipe) Clone() Recipe {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = make([]Ingredient, len(r.Ingredients))
		copy(c.Ingredients, r.Ingredients)
	}
	if r.Instructions != nil {
		c.Instructions = make([]string, len(r.Instructions))
		copy(c.Instructions, r.Instructions)
	}
	return c
}

// MatchesAny reports whether at least one of the normalized terms is a
// substring of at least one ingredient name. Terms must already be
// normalized with NormalizeTerms.
func (r Recipe) MatchesAny(terms []string) bool {
	for _, ing := range r.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, term := range terms {
			if strings.Contains(name, term) {
				return true
			}
		}
	}
	return false
}

// NormalizeTerms lower-cases and trims search terms, dropping blanks
func NormalizeTerms(terms []string) []string {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		normalized = append(normalized, t)
	}
	return normalized
}
