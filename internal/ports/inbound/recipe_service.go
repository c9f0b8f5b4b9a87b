// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// CatalogService defines the catalog and rating use cases.
// This is the primary port that HTTP handlers and the CLI use.
type CatalogService interface {
	// Queries
	SearchRecipes(ctx context.Context, ingredients []string) ([]recipe.Recipe, error)
	GetRecipeByID(ctx context.Context, id string) (recipe.Recipe, bool, error)
	RatingSummary(ctx context.Context, id string) (*recipe.RatingSummary, error)

	// Commands
	RateRecipe(ctx context.Context, cmd RateRecipeCommand) (*recipe.Rating, error)
}

// VideoService resolves a playable video URL for a recipe
type VideoService interface {
	GenerateVideo(ctx context.Context, recipeID string) (*VideoResult, error)
}

// RateRecipeCommand for rating a recipe
type RateRecipeCommand struct {
	RecipeID string `json:"recipe_id" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
}

// VideoOutcome tells how a video URL was obtained
type VideoOutcome string

const (
	VideoOutcomeCacheHit  VideoOutcome = "cache_hit"
	VideoOutcomeGenerated VideoOutcome = "generated"
	VideoOutcomeFallback  VideoOutcome = "fallback"
)

// VideoResult is the structured outcome of GenerateVideo. Presentation
// layers render messages from it; the core emits no user-facing text.
type VideoResult struct {
	RecipeID  string       `json:"recipe_id"`
	URL       string       `json:"url"`
	Outcome   VideoOutcome `json:"outcome"`

	// Persisted reports whether this call wrote the URL to the cache. It
	// is false on cache hits and fallbacks.
	Persisted bool `json:"persisted"`

	// GenerationError is set when the fallback URL was returned
	GenerationError error `json:"-"`
}

// FallbackUsed reports whether the result carries the fallback URL
func (r *VideoResult) FallbackUsed() bool {
	return r.Outcome == VideoOutcomeFallback
}
