// Package recipe provides the application layer for the recipe catalog
// This implements the catalog use cases defined in the inbound ports
package recipe

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
)

// CatalogService implements the catalog use cases
type CatalogService struct {
	catalog  outbound.CatalogRepository
	ratings  outbound.RatingRepository
	events   outbound.EventPublisher
	metrics  outbound.VideoMetrics
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	catalog outbound.CatalogRepository,
	ratings outbound.RatingRepository,
	events outbound.EventPublisher,
	metrics outbound.VideoMetrics,
	logger *zap.Logger,
) *CatalogService {
	if metrics == nil {
		metrics = outbound.NopMetrics{}
	}
	return &CatalogService{
		catalog:  catalog,
		ratings:  ratings,
		events:   events,
		metrics:  metrics,
		validate: validator.New(),
		now:      time.Now,
		logger:   logger.Named("catalog-service"),
	}
}

var _ inbound.CatalogService = (*CatalogService)(nil)

// SearchRecipes returns the recipes having at least one ingredient whose
// name contains one of the terms, in catalog order. No usable terms
// returns the whole catalog.
func (s *CatalogService) SearchRecipes(ctx context.Context, ingredients []string) ([]recipe.Recipe, error) {
	all, err := s.catalog.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	terms := recipe.NormalizeTerms(ingredients)
	if len(terms) == 0 {
		if all == nil {
			all = []recipe.Recipe{}
		}
		return all, nil
	}

	matches := make([]recipe.Recipe, 0, len(all))
	for _, r := range all {
		if r.MatchesAny(terms) {
			matches = append(matches, r)
		}
	}

	s.logger.Debug("Searched recipes",
		zap.Strings("terms", terms),
		zap.Int("matches", len(matches)),
	)

	return matches, nil
}

// GetRecipeByID returns the recipe with the given id. An unknown id is
// reported through the boolean, not as an error.
func (s *CatalogService) GetRecipeByID(ctx context.Context, id string) (recipe.Recipe, bool, error) {
	if id == "" {
		return recipe.Recipe{}, false, nil
	}

	r, found, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		return recipe.Recipe{}, false, errors.NewDatabaseError("find recipe", err)
	}
	return r, found, nil
}

// RateRecipe validates and records a rating, then announces it
func (s *CatalogService) RateRecipe(ctx context.Context, cmd inbound.RateRecipeCommand) (*recipe.Rating, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, s.validationError(err)
	}

	if _, found, err := s.GetRecipeByID(ctx, cmd.RecipeID); err != nil {
		return nil, err
	} else if !found {
		return nil, errors.NewRecipeNotFoundError(cmd.RecipeID).WithCause(recipe.ErrRecipeNotFound)
	}

	rating, err := recipe.NewRating(cmd.RecipeID, cmd.Rating, s.now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error()).WithCause(err)
	}

	if err := s.ratings.Record(ctx, rating); err != nil {
		s.logger.Error("Failed to record rating",
			zap.String("recipe_id", cmd.RecipeID),
			zap.Error(err),
		)
		return nil, errors.NewDatabaseError("record rating", err)
	}

	s.metrics.RatingRecorded(rating.Value)

	event := recipe.RecipeRatedEvent{
		RatingID: rating.ID,
		RecipeID: rating.RecipeID,
		Rating:   rating.Value,
		RatedAt:  rating.CreatedAt,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event", event.EventName()),
			zap.Error(err),
		)
	}

	s.logger.Info("Recipe rated",
		zap.String("recipe_id", rating.RecipeID),
		zap.Int("rating", rating.Value),
	)

	return &rating, nil
}

// RatingSummary returns the aggregate of recorded ratings for a recipe
func (s *CatalogService) RatingSummary(ctx context.Context, id string) (*recipe.RatingSummary, error) {
	if _, found, err := s.GetRecipeByID(ctx, id); err != nil {
		return nil, err
	} else if !found {
		return nil, errors.NewRecipeNotFoundError(id).WithCause(recipe.ErrRecipeNotFound)
	}

	summary, err := s.ratings.Summary(ctx, id)
	if err != nil {
		return nil, errors.NewDatabaseError("summarize ratings", err)
	}
	return &summary, nil
}

// validationError converts validator failures into a structured error
func (s *CatalogService) validationError(err error) *errors.AppError {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error()).WithCause(err)
	}

	details := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}

	appErr := errors.NewValidationErrors(details)
	for _, fe := range fieldErrs {
		if fe.Field() == "Rating" {
			return appErr.WithCause(recipe.ErrInvalidRating)
		}
	}
	return appErr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Rating":
		return recipe.ErrInvalidRating.Error()
	case "RecipeID":
		return "recipe id is required"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
