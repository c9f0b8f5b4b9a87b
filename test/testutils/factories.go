// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/brianvoe/gofakeit/v6"
)

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// RecipeOption customizes a generated recipe
type RecipeOption func(*recipe.Recipe)

// WithID sets the recipe id
func WithID(id string) RecipeOption {
	return func(r *recipe.Recipe) { r.ID = id }
}

// WithTitle sets the recipe title
func WithTitle(title string) RecipeOption {
	return func(r *recipe.Recipe) { r.Title = title }
}

// WithIngredients replaces the ingredient list with the given names
func WithIngredients(names ...string) RecipeOption {
	return func(r *recipe.Recipe) {
		r.Ingredients = make([]recipe.Ingredient, 0, len(names))
		for _, name := range names {
			r.Ingredients = append(r.Ingredients, recipe.Ingredient{
				Name:        name,
				Amount:      "1",
				Unit:        "cup",
				IsAvailable: true,
			})
		}
	}
}

// WithInstructions replaces the instructions
func WithInstructions(steps ...string) RecipeOption {
	return func(r *recipe.Recipe) { r.Instructions = steps }
}

// NewRecipe creates a valid recipe with fake content
func (f *RecipeFactory) NewRecipe(opts ...RecipeOption) recipe.Recipe {
	f.seq++

	ingredients := make([]recipe.Ingredient, 0, 4)
	for i := 0; i < 4; i++ {
		ingredients = append(ingredients, recipe.Ingredient{
			Name:        f.faker.Vegetable(),
			Amount:      fmt.Sprintf("%d", f.faker.Number(1, 500)),
			Unit:        f.faker.RandomString([]string{"g", "ml", "tbsp", "tsp", "cup", ""}),
			IsAvailable: f.faker.Bool(),
		})
	}

	r := recipe.Recipe{
		ID:          fmt.Sprintf("test-%d", f.seq),
		Title:       f.faker.Dinner(),
		Description: f.faker.Sentence(10),
		Ingredients: ingredients,
		Instructions: []string{
			f.faker.Sentence(6),
			f.faker.Sentence(8),
			f.faker.Sentence(5),
		},
		ImageURL: f.faker.URL(),
		PrepTime: f.faker.Number(0, 30),
		CookTime: f.faker.Number(0, 60),
		Servings: f.faker.Number(1, 8),
		NutritionInfo: recipe.NutritionInfo{
			Calories: f.faker.Number(100, 900),
			Protein:  float64(f.faker.Number(0, 60)),
			Carbs:    float64(f.faker.Number(0, 120)),
			Fat:      float64(f.faker.Number(0, 50)),
		},
		Rating:  float64(f.faker.Number(0, 50)) / 10,
		Reviews: f.faker.Number(0, 500),
	}

	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NewRecipes creates n recipes
func (f *RecipeFactory) NewRecipes(n int) []recipe.Recipe {
	recipes := make([]recipe.Recipe, 0, n)
	for i := 0; i < n; i++ {
		recipes = append(recipes, f.NewRecipe())
	}
	return recipes
}

// NewRating creates a valid rating for the recipe
func (f *RecipeFactory) NewRating(recipeID string) recipe.Rating {
	r, err := recipe.NewRating(recipeID, f.faker.Number(recipe.MinRating, recipe.MaxRating), time.Now())
	if err != nil {
		panic(err)
	}
	return r
}
