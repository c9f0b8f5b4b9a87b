package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the recipe domain

// VideoResolvedEvent is raised whenever a video URL is handed to a caller
type VideoResolvedEvent struct {
	RecipeID   string    `json:"recipe_id"`
	URL        string    `json:"url"`
	Outcome    string    `json:"outcome"`
	Persisted  bool      `json:"persisted"`
	ResolvedAt time.Time `json:"resolved_at"`
}

func (e VideoResolvedEvent) EventName() string {
	return "recipe.video.resolved"
}

func (e VideoResolvedEvent) OccurredAt() time.Time {
	return e.ResolvedAt
}

func (e VideoResolvedEvent) AggregateID() string {
	return e.RecipeID
}

// RecipeRatedEvent is raised when a rating has been recorded
type RecipeRatedEvent struct {
	RatingID uuid.UUID `json:"rating_id"`
	RecipeID string    `json:"recipe_id"`
	Rating   int       `json:"rating"`
	RatedAt  time.Time `json:"rated_at"`
}

func (e RecipeRatedEvent) EventName() string {
	return "recipe.rated"
}

func (e RecipeRatedEvent) OccurredAt() time.Time {
	return e.RatedAt
}

func (e RecipeRatedEvent) AggregateID() string {
	return e.RecipeID
}
