package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Catalog errors
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrBlankRecipeID  = errors.New("recipe id must not be blank")
	ErrInvalidRecipe  = errors.New("invalid recipe")
	ErrDuplicateID    = errors.New("duplicate recipe id")

	// Rating errors
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// Video generation errors
	ErrGenerationFailed = errors.New("video generation failed")
	ErrEmptyVideoURL    = errors.New("video provider returned an empty url")
)
