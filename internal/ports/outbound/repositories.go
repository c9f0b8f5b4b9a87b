// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shared"
)

// CatalogRepository is the read-only recipe catalog. Implementations
// return copies, and List preserves catalog order.
type CatalogRepository interface {
	List(ctx context.Context) ([]recipe.Recipe, error)
	FindByID(ctx context.Context, id string) (recipe.Recipe, bool, error)
}

// VideoCache associates generated video URLs with recipe ids
type VideoCache interface {
	// Get returns the cached URL and whether one was found
	Get(ctx context.Context, recipeID string) (string, bool, error)
	Put(ctx context.Context, recipeID, url string, createdAt time.Time) error
}

// RatingRepository records ratings
type RatingRepository interface {
	Record(ctx context.Context, rating recipe.Rating) error
	Summary(ctx context.Context, recipeID string) (recipe.RatingSummary, error)
}

// EventPublisher publishes domain events to interested parties
type EventPublisher interface {
	Publish(ctx context.Context, event shared.DomainEvent) error
}

// ObjectStorage stores binary objects and returns their public URL
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
