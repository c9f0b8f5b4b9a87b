package generator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// RateLimitedGenerator throttles calls to the wrapped generator
type RateLimitedGenerator struct {
	next    outbound.VideoGenerator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator allows requestsPerMinute calls with the given
// burst. A non-positive rate disables limiting.
func NewRateLimitedGenerator(next outbound.VideoGenerator, requestsPerMinute, burst int) outbound.VideoGenerator {
	if requestsPerMinute <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst),
	}
}

// Generate waits for a token, then delegates
func (g *RateLimitedGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return g.next.Generate(ctx, req)
}
