package video

import (
	"strings"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// BuildScript renders the narration text sent to a video generator:
// title, description, the ingredient list and the steps as prose.
func BuildScript(r recipe.Recipe) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(r.Title))
	if desc := strings.TrimSpace(r.Description); desc != "" {
		b.WriteString(". ")
		b.WriteString(strings.TrimSuffix(desc, "."))
	}
	b.WriteString(".")

	if len(r.Ingredients) > 0 {
		items := make([]string, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			if d := ing.Display(); d != "" {
				items = append(items, d)
			}
		}
		b.WriteString("\n\nIngredients: ")
		b.WriteString(strings.Join(items, ", "))
		b.WriteString(".")
	}

	steps := make([]string, 0, len(r.Instructions))
	for _, step := range r.Instructions {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}
	if len(steps) > 0 {
		b.WriteString("\n\nInstructions: ")
		b.WriteString(strings.Join(steps, " "))
	}

	return b.String()
}
