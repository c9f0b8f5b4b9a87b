// Package memory provides in-memory implementations of the outbound ports
package memory

import (
	"context"
	"fmt"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// CatalogRepository is a fixed, ordered recipe catalog held in memory.
// It is immutable after construction, so no locking is needed.
type CatalogRepository struct {
	recipes []recipe.Recipe
	byID    map[string]int
}

// NewCatalogRepository creates a catalog from the given recipes. Every
// recipe must be valid and ids must be unique.
func NewCatalogRepository(recipes []recipe.Recipe) (*CatalogRepository, error) {
	repo := &CatalogRepository{
		recipes: make([]recipe.Recipe, 0, len(recipes)),
		byID:    make(map[string]int, len(recipes)),
	}

	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		if _, dup := repo.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", recipe.ErrDuplicateID, r.ID)
		}
		repo.byID[r.ID] = len(repo.recipes)
		repo.recipes = append(repo.recipes, r.Clone())
	}

	return repo, nil
}

// NewSeededCatalogRepository creates a catalog holding the built-in recipes
func NewSeededCatalogRepository() (*CatalogRepository, error) {
	return NewCatalogRepository(SeedRecipes())
}

// List returns copies of every recipe in catalog order
func (r *CatalogRepository) List(ctx context.Context) ([]recipe.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]recipe.Recipe, len(r.recipes))
	for i, rec := range r.recipes {
		out[i] = rec.Clone()
	}
	return out, nil
}

// FindByID returns a copy of the recipe with the given id
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (recipe.Recipe, bool, error) {
	if err := ctx.Err(); err != nil {
		return recipe.Recipe{}, false, err
	}

	idx, ok := r.byID[id]
	if !ok {
		return recipe.Recipe{}, false, nil
	}
	return r.recipes[idx].Clone(), true, nil
}

// Len returns the number of recipes in the catalog
func (r *CatalogRepository) Len() int {
	return len(r.recipes)
}
