package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// CatalogRepository implements the catalog port using GORM
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var _ outbound.CatalogRepository = (*CatalogRepository)(nil)

// List returns every recipe in catalog order
func (r *CatalogRepository) List(ctx context.Context) ([]recipe.Recipe, error) {
	var models []RecipeModel
	if err := r.db.WithContext(ctx).Order("position ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]recipe.Recipe, 0, len(models))
	for i := range models {
		recipes = append(recipes, ModelToRecipe(&models[i]))
	}
	return recipes, nil
}

// FindByID finds a recipe by ID
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (recipe.Recipe, bool, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return recipe.Recipe{}, false, nil
	}
	if err != nil {
		return recipe.Recipe{}, false, fmt.Errorf("failed to find recipe: %w", err)
	}
	return ModelToRecipe(&model), true, nil
}

// Count returns the number of recipes in the catalog
func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RecipeModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// Seed upserts the given recipes, keeping their order as catalog order
func (r *CatalogRepository) Seed(ctx context.Context, recipes []recipe.Recipe) error {
	models := make([]*RecipeModel, 0, len(recipes))
	for i, rec := range recipes {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("recipe %q: %w", rec.ID, err)
		}
		models = append(models, RecipeToModel(rec, i))
	}
	if len(models) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&models).Error
	})
}

// SeedIfEmpty seeds only when the catalog has no recipes yet
func (r *CatalogRepository) SeedIfEmpty(ctx context.Context, recipes []recipe.Recipe) (bool, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := r.Seed(ctx, recipes); err != nil {
		return false, err
	}
	return true, nil
}
