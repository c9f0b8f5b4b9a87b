package outbound

import (
	"context"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// VideoGenerator produces a playable video URL for a recipe or fails.
// Every generation backend conforms to this contract.
type VideoGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationRequest carries the recipe and its narration script
type GenerationRequest struct {
	Recipe recipe.Recipe
	Script string
}

// TokenSource hands out bearer credentials for a remote provider
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// VideoMetrics receives orchestrator telemetry
type VideoMetrics interface {
	VideoResolved(outcome string, duration time.Duration)
	CacheError(operation string)
	RatingRecorded(value int)
}

// NopMetrics discards all telemetry
type NopMetrics struct{}

func (NopMetrics) VideoResolved(string, time.Duration) {}
func (NopMetrics) CacheError(string)                   {}
func (NopMetrics) RatingRecorded(int)                  {}
