package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/infrastructure/ai/generator"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SECRETS_DIR", t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "no terms lists the catalog",
			args:     []string{"search"},
			contains: []string{"Creamy Mushroom Pasta", "Mediterranean Chickpea Salad", "Avocado Toast with Poached Egg"},
		},
		{
			name:     "matches ingredient substrings",
			args:     []string{"search", "LEMON"},
			contains: []string{"Mediterranean Chickpea Salad", "Avocado Toast with Poached Egg"},
			excludes: []string{"Creamy Mushroom Pasta"},
		},
		{
			name:     "nothing matches",
			args:     []string{"search", "durian"},
			contains: []string{"No recipes found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)

			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestSearchJSON(t *testing.T) {
	// Act
	out, err := execute(t, "search", "--json", "eggs")

	// Assert
	require.NoError(t, err)
	var recipes []recipe.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, "3", recipes[0].ID)
}

func TestShow(t *testing.T) {
	out, err := execute(t, "show", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Creamy Mushroom Pasta")
	assert.Contains(t, out, "Ingredients:")
	assert.Contains(t, out, "  1. ")
}

func TestShowUnknownRecipe(t *testing.T) {
	_, err := execute(t, "show", "999")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRecipeNotFound, apperrors.GetCode(err))
}

func TestVideo(t *testing.T) {
	out, err := execute(t, "video", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Video generated.")
	assert.Contains(t, out, generator.SampleBaseURL+"ForBiggerBlazes.mp4")
}

func TestRate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "records a rating", args: []string{"rate", "2", "4"}, want: "Rated recipe 2 with 4 stars."},
		{name: "singular star", args: []string{"rate", "2", "1"}, want: "Rated recipe 2 with 1 star."},
		{name: "out of range", args: []string{"rate", "2", "6"}, wantErr: true},
		{name: "not a number", args: []string{"rate", "2", "five"}, wantErr: true},
		{name: "unknown recipe", args: []string{"rate", "999", "3"}, wantErr: true},
		{name: "missing rating", args: []string{"rate", "2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := execute(t, "migrate", "version")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
