package gorm

import (
	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// RecipeToModel converts a domain recipe to its GORM model. Video URLs
// live in recipe_videos, not in the catalog row.
func RecipeToModel(r recipe.Recipe, position int) *RecipeModel {
	ingredients := make(IngredientList, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, IngredientModel{
			Name:        ing.Name,
			Amount:      ing.Amount,
			Unit:        ing.Unit,
			IsAvailable: ing.IsAvailable,
		})
	}

	return &RecipeModel{
		ID:              r.ID,
		Position:        position,
		Title:           r.Title,
		Description:     r.Description,
		Ingredients:     ingredients,
		Instructions:    StringSlice(append([]string(nil), r.Instructions...)),
		ImageURL:        r.ImageURL,
		PrepTimeMinutes: r.PrepTime,
		CookTimeMinutes: r.CookTime,
		Servings:        r.Servings,
		Calories:        r.Calories,
		Protein:         r.Protein,
		Carbs:           r.Carbs,
		Fat:             r.Fat,
		AverageRating:   r.Rating,
		ReviewCount:     r.Reviews,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) recipe.Recipe {
	ingredients := make([]recipe.Ingredient, 0, len(m.Ingredients))
	for _, ing := range m.Ingredients {
		ingredients = append(ingredients, recipe.Ingredient{
			Name:        ing.Name,
			Amount:      ing.Amount,
			Unit:        ing.Unit,
			IsAvailable: ing.IsAvailable,
		})
	}

	instructions := make([]string, len(m.Instructions))
	copy(instructions, m.Instructions)

	return recipe.Recipe{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Ingredients:  ingredients,
		Instructions: instructions,
		ImageURL:     m.ImageURL,
		PrepTime:     m.PrepTimeMinutes,
		CookTime:     m.CookTimeMinutes,
		Servings:     m.Servings,
		NutritionInfo: recipe.NutritionInfo{
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		},
		Rating:  m.AverageRating,
		Reviews: m.ReviewCount,
	}
}

// RatingToModel converts a domain rating to its GORM model
func RatingToModel(r recipe.Rating) *RatingModel {
	return &RatingModel{
		ID:        r.ID,
		RecipeID:  r.RecipeID,
		Rating:    r.Value,
		CreatedAt: r.CreatedAt,
	}
}
