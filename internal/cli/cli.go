// Package cli implements the pantryctl command line client
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/container"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

type options struct {
	configPath string
	verbose    bool
	asJSON     bool
}

// services are the use cases a command runs against
type services struct {
	catalog inbound.CatalogService
	videos  inbound.VideoService
}

// NewRootCommand builds the pantryctl command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "pantryctl",
		Short:         "Find recipes by ingredient, fetch recipe videos and rate recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at the configured level instead of errors only")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newSearchCommand(opts),
		newShowCommand(opts),
		newVideoCommand(opts),
		newRateCommand(opts),
		newMigrateCommand(opts),
	)
	return root
}

// run starts the core graph, hands the services to fn and stops it again
func run(ctx context.Context, opts *options, fn func(services) error) error {
	var svc services
	app := fx.New(
		fx.NopLogger,
		fx.Supply(container.ConfigPath(opts.configPath)),
		container.CoreModule,
		fx.Decorate(func(cfg *config.Config) *config.Config {
			if !opts.verbose {
				quiet := *cfg
				quiet.App.LogLevel = "error"
				return &quiet
			}
			return cfg
		}),
		fx.Populate(&svc.catalog, &svc.videos),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	return fn(svc)
}

func newSearchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search [ingredient...]",
		Short: "List recipes that use any of the ingredients",
		Long:  "List recipes whose ingredients contain any of the given terms. Without terms the whole catalog is listed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, func(s services) error {
				recipes, err := s.catalog.SearchRecipes(cmd.Context(), args)
				if err != nil {
					return err
				}
				if opts.asJSON {
					return writeJSON(cmd.OutOrStdout(), recipes)
				}
				if len(recipes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recipes found.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tTIME\tRATING")
				for _, r := range recipes {
					fmt.Fprintf(w, "%s\t%s\t%d min\t%.1f\n", r.ID, r.Title, r.TotalTime(), r.Rating)
				}
				return w.Flush()
			})
		},
	}
}

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, func(s services) error {
				r, found, err := s.catalog.GetRecipeByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !found {
					return apperrors.NewRecipeNotFoundError(args[0])
				}
				if opts.asJSON {
					return writeJSON(cmd.OutOrStdout(), r)
				}
				printRecipe(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
}

func newVideoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "video <id>",
		Short: "Get a video for a recipe, generating one if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, func(s services) error {
				result, err := s.videos.GenerateVideo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if opts.asJSON {
					return writeJSON(cmd.OutOrStdout(), result)
				}

				out := cmd.OutOrStdout()
				switch result.Outcome {
				case inbound.VideoOutcomeCacheHit:
					fmt.Fprintln(out, "Video loaded from cache.")
				case inbound.VideoOutcomeFallback:
					fmt.Fprintln(out, "Video generation failed, showing a sample video instead.")
				default:
					fmt.Fprintln(out, "Video generated.")
				}
				fmt.Fprintln(out, result.URL)
				return nil
			})
		},
	}
}

func newRateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <1-5>",
		Short: "Rate a recipe",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a whole number from 1 to 5, got %q", args[1])
			}

			return run(cmd.Context(), opts, func(s services) error {
				rating, err := s.catalog.RateRecipe(cmd.Context(), inbound.RateRecipeCommand{
					RecipeID: args[0],
					Rating:   value,
				})
				if err != nil {
					return err
				}
				if opts.asJSON {
					return writeJSON(cmd.OutOrStdout(), rating)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rated recipe %s with %d %s.\n",
					rating.RecipeID, rating.Value, plural(rating.Value, "star", "stars"))
				return nil
			})
		},
	}
}

func printRecipe(w io.Writer, r recipe.Recipe) {
	fmt.Fprintf(w, "%s\n%s\n\n", r.Title, strings.Repeat("=", len(r.Title)))
	if r.Description != "" {
		fmt.Fprintf(w, "%s\n\n", r.Description)
	}
	fmt.Fprintf(w, "Prep %d min, cook %d min, serves %d\n", r.PrepTime, r.CookTime, r.Servings)
	fmt.Fprintf(w, "Rating %.1f (%d reviews)\n\n", r.Rating, r.Reviews)

	fmt.Fprintln(w, "Ingredients:")
	for _, ing := range r.Ingredients {
		marker := " "
		if ing.IsAvailable {
			marker = "x"
		}
		fmt.Fprintf(w, "  [%s] %s\n", marker, ing.Display())
	}

	fmt.Fprintln(w, "\nInstructions:")
	for i, step := range r.Instructions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}

	if n := r.NutritionInfo; n.Calories > 0 {
		fmt.Fprintf(w, "\nPer serving: %d kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n",
			n.Calories, n.Protein, n.Carbs, n.Fat)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
