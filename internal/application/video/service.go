// Package video resolves a playable video URL for a recipe: cached
// results first, then a generator, then an optional fallback URL.
package video

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
)

// DefaultFallbackURL is an always-available sample video
const DefaultFallbackURL = "https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"

const tracerName = "github.com/alchemorsel/pantry/internal/application/video"

// Config tunes the orchestrator
type Config struct {
	FallbackEnabled   bool
	FallbackURL       string
	GenerationTimeout time.Duration
	CacheTimeout      time.Duration
}

// DefaultConfig returns fallback enabled with generous timeouts
func DefaultConfig() Config {
	return Config{
		FallbackEnabled:   true,
		FallbackURL:       DefaultFallbackURL,
		GenerationTimeout: 60 * time.Second,
		CacheTimeout:      2 * time.Second,
	}
}

// Service implements inbound.VideoService
type Service struct {
	catalog   outbound.CatalogRepository
	cache     outbound.VideoCache
	generator outbound.VideoGenerator
	events    outbound.EventPublisher
	metrics   outbound.VideoMetrics
	config    Config
	tracer    trace.Tracer
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates the video orchestrator
func NewService(
	catalog outbound.CatalogRepository,
	cache outbound.VideoCache,
	generator outbound.VideoGenerator,
	events outbound.EventPublisher,
	metrics outbound.VideoMetrics,
	config Config,
	logger *zap.Logger,
) *Service {
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	if config.FallbackURL == "" {
		config.FallbackURL = DefaultFallbackURL
	}
	return &Service{
		catalog:   catalog,
		cache:     cache,
		generator: generator,
		events:    events,
		metrics:   metrics,
		config:    config,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
		logger:    logger.Named("video-service"),
	}
}

var _ inbound.VideoService = (*Service)(nil)

// GenerateVideo returns a playable URL for the recipe. An unknown recipe
// is the only hard failure unless fallback is disabled; cache problems
// degrade to a miss and persistence problems are logged.
func (s *Service) GenerateVideo(ctx context.Context, recipeID string) (*inbound.VideoResult, error) {
	start := s.now()

	ctx, span := s.tracer.Start(ctx, "video.GenerateVideo",
		trace.WithAttributes(attribute.String("recipe.id", recipeID)))
	defer span.End()

	r, err := s.resolve(ctx, recipeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve recipe")
		return nil, err
	}

	if url, ok := s.lookup(ctx, recipeID); ok {
		return s.finish(ctx, span, start, &inbound.VideoResult{
			RecipeID: recipeID,
			URL:      url,
			Outcome:  inbound.VideoOutcomeCacheHit,
		}), nil
	}

	url, genErr := s.generate(ctx, r)
	if genErr != nil {
		span.RecordError(genErr)

		if !s.config.FallbackEnabled {
			span.SetStatus(codes.Error, "generation failed")
			s.metrics.VideoResolved("error", s.now().Sub(start))
			return nil, errors.NewExternalServiceError("video generator", genErr).
				WithMetadata("recipe_id", recipeID)
		}

		s.logger.Warn("Video generation failed, using fallback",
			zap.String("recipe_id", recipeID),
			zap.Error(genErr),
		)
		// The fallback is never cached so a later call can still generate
		return s.finish(ctx, span, start, &inbound.VideoResult{
			RecipeID:        recipeID,
			URL:             s.config.FallbackURL,
			Outcome:         inbound.VideoOutcomeFallback,
			GenerationError: genErr,
		}), nil
	}

	return s.finish(ctx, span, start, &inbound.VideoResult{
		RecipeID:  recipeID,
		URL:       url,
		Outcome:   inbound.VideoOutcomeGenerated,
		Persisted: s.persist(ctx, recipeID, url),
	}), nil
}

func (s *Service) resolve(ctx context.Context, recipeID string) (recipe.Recipe, error) {
	if recipeID == "" {
		return recipe.Recipe{}, errors.NewRecipeNotFoundError(recipeID).WithCause(recipe.ErrRecipeNotFound)
	}

	r, found, err := s.catalog.FindByID(ctx, recipeID)
	if err != nil {
		return recipe.Recipe{}, errors.NewDatabaseError("find recipe", err)
	}
	if !found {
		return recipe.Recipe{}, errors.NewRecipeNotFoundError(recipeID).WithCause(recipe.ErrRecipeNotFound)
	}
	return r, nil
}

// lookup consults the cache. Errors and timeouts count as a miss.
func (s *Service) lookup(ctx context.Context, recipeID string) (string, bool) {
	ctx, cancel := s.withTimeout(ctx, s.config.CacheTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "video.cache.get")
	defer span.End()

	url, found, err := s.cache.Get(ctx, recipeID)
	if err != nil {
		span.RecordError(err)
		s.metrics.CacheError("get")
		s.logger.Warn("Video cache lookup failed, treating as miss",
			zap.String("recipe_id", recipeID),
			zap.Error(err),
		)
		return "", false
	}

	hit := found && url != ""
	span.SetAttributes(attribute.Bool("cache.hit", hit))
	return url, hit
}

func (s *Service) generate(ctx context.Context, r recipe.Recipe) (string, error) {
	ctx, cancel := s.withTimeout(ctx, s.config.GenerationTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "video.generate")
	defer span.End()

	url, err := s.generator.Generate(ctx, outbound.GenerationRequest{
		Recipe: r,
		Script: BuildScript(r),
	})
	if err == nil && url == "" {
		err = recipe.ErrEmptyVideoURL
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%w: %w", recipe.ErrGenerationFailed, err)
	}
	return url, nil
}

// persist stores a generated URL. Failure is reported, never returned.
func (s *Service) persist(ctx context.Context, recipeID, url string) bool {
	ctx, cancel := s.withTimeout(ctx, s.config.CacheTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "video.cache.put")
	defer span.End()

	if err := s.cache.Put(ctx, recipeID, url, s.now().UTC()); err != nil {
		span.RecordError(err)
		s.metrics.CacheError("put")
		s.logger.Warn("Failed to persist generated video",
			zap.String("recipe_id", recipeID),
			zap.String("url", url),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *Service) finish(ctx context.Context, span trace.Span, start time.Time, result *inbound.VideoResult) *inbound.VideoResult {
	span.SetAttributes(
		attribute.String("video.outcome", string(result.Outcome)),
		attribute.Bool("video.persisted", result.Persisted),
	)

	event := recipe.VideoResolvedEvent{
		RecipeID:   result.RecipeID,
		URL:        result.URL,
		Outcome:    string(result.Outcome),
		Persisted:  result.Persisted,
		ResolvedAt: s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err),
		)
	}

	s.metrics.VideoResolved(string(result.Outcome), s.now().Sub(start))

	s.logger.Info("Video resolved",
		zap.String("recipe_id", result.RecipeID),
		zap.String("outcome", string(result.Outcome)),
		zap.Bool("persisted", result.Persisted),
	)
	return result
}

func (s *Service) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
