package memory

import "github.com/alchemorsel/pantry/internal/domain/recipe"

// SeedRecipes returns the built-in catalog in catalog order. Each call
// returns fresh values.
func SeedRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{
			ID:          "1",
			Title:       "Creamy Mushroom Pasta",
			Description: "A rich and creamy pasta dish with sautéed mushrooms and garlic.",
			Ingredients: []recipe.Ingredient{
				{Name: "Pasta", Amount: "250", Unit: "g", IsAvailable: true},
				{Name: "Mushrooms", Amount: "200", Unit: "g", IsAvailable: true},
				{Name: "Garlic", Amount: "3", Unit: "cloves", IsAvailable: true},
				{Name: "Heavy Cream", Amount: "200", Unit: "ml", IsAvailable: false},
				{Name: "Parmesan", Amount: "50", Unit: "g", IsAvailable: true},
				{Name: "Olive Oil", Amount: "2", Unit: "tbsp", IsAvailable: true},
				{Name: "Salt", Amount: "1", Unit: "tsp", IsAvailable: true},
				{Name: "Black Pepper", Amount: "1/2", Unit: "tsp", IsAvailable: true},
			},
			Instructions: []string{
				"Cook pasta according to package instructions.",
				"Heat olive oil in a pan over medium heat.",
				"Add minced garlic and sauté until fragrant.",
				"Add sliced mushrooms and cook until golden brown.",
				"Pour in heavy cream and simmer for 5 minutes.",
				"Add cooked pasta to the sauce and mix well.",
				"Sprinkle with grated parmesan and black pepper.",
				"Serve hot and enjoy!",
			},
			ImageURL:      "https://images.unsplash.com/photo-1661174791092-b695bf5afd66",
			PrepTime:      10,
			CookTime:      20,
			Servings:      4,
			NutritionInfo: recipe.NutritionInfo{Calories: 450, Protein: 12, Carbs: 48, Fat: 22},
			Rating:        4.7,
			Reviews:       128,
		},
		{
			ID:          "2",
			Title:       "Mediterranean Chickpea Salad",
			Description: "A refreshing salad with chickpeas, cucumber, tomatoes, and feta cheese.",
			Ingredients: []recipe.Ingredient{
				{Name: "Chickpeas", Amount: "400", Unit: "g", IsAvailable: true},
				{Name: "Cucumber", Amount: "1", Unit: "medium", IsAvailable: true},
				{Name: "Cherry Tomatoes", Amount: "200", Unit: "g", IsAvailable: true},
				{Name: "Red Onion", Amount: "1/2", Unit: "", IsAvailable: true},
				{Name: "Feta Cheese", Amount: "100", Unit: "g", IsAvailable: false},
				{Name: "Lemon", Amount: "1", Unit: "", IsAvailable: true},
				{Name: "Olive Oil", Amount: "3", Unit: "tbsp", IsAvailable: true},
				{Name: "Fresh Parsley", Amount: "1/4", Unit: "cup", IsAvailable: false},
				{Name: "Salt", Amount: "1/2", Unit: "tsp", IsAvailable: true},
				{Name: "Black Pepper", Amount: "1/4", Unit: "tsp", IsAvailable: true},
			},
			Instructions: []string{
				"Drain and rinse the chickpeas.",
				"Dice the cucumber, tomatoes, and red onion.",
				"Combine all vegetables and chickpeas in a large bowl.",
				"Crumble feta cheese over the top.",
				"In a small bowl, mix lemon juice, olive oil, salt, and pepper.",
				"Pour the dressing over the salad and toss gently.",
				"Sprinkle with chopped fresh parsley.",
				"Chill for at least 30 minutes before serving.",
			},
			ImageURL:      "https://images.unsplash.com/photo-1612967676197-6a95f3272b6c",
			PrepTime:      15,
			CookTime:      0,
			Servings:      4,
			NutritionInfo: recipe.NutritionInfo{Calories: 320, Protein: 15, Carbs: 35, Fat: 15},
			Rating:        4.5,
			Reviews:       93,
		},
		{
			ID:          "3",
			Title:       "Avocado Toast with Poached Egg",
			Description: "A simple yet nutritious breakfast with creamy avocado and perfectly poached eggs.",
			Ingredients: []recipe.Ingredient{
				{Name: "Bread", Amount: "2", Unit: "slices", IsAvailable: true},
				{Name: "Avocado", Amount: "1", Unit: "ripe", IsAvailable: true},
				{Name: "Eggs", Amount: "2", Unit: "large", IsAvailable: true},
				{Name: "Lemon", Amount: "1/2", Unit: "", IsAvailable: true},
				{Name: "Red Pepper Flakes", Amount: "1/4", Unit: "tsp", IsAvailable: false},
				{Name: "Salt", Amount: "1/2", Unit: "tsp", IsAvailable: true},
				{Name: "Black Pepper", Amount: "1/4", Unit: "tsp", IsAvailable: true},
			},
			Instructions: []string{
				"Toast the bread until golden and crisp.",
				"Mash the avocado with lemon juice, salt, and pepper.",
				"Spread the avocado mixture on the toast.",
				"Bring a pot of water to a gentle simmer and add a splash of vinegar.",
				"Crack an egg into a small cup and gently slide it into the water.",
				"Poach for 3-4 minutes until the whites are set but the yolk is still runny.",
				"Remove with a slotted spoon and place on the avocado toast.",
				"Sprinkle with red pepper flakes and serve immediately.",
			},
			ImageURL:      "https://images.unsplash.com/photo-1525351484163-7529414344d8",
			PrepTime:      5,
			CookTime:      10,
			Servings:      2,
			NutritionInfo: recipe.NutritionInfo{Calories: 280, Protein: 10, Carbs: 22, Fat: 18},
			Rating:        4.8,
			Reviews:       156,
		},
	}
}
