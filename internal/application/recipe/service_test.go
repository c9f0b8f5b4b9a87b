package recipe_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	app "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/test/testutils"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	ratings *testutils.MockRatingRepository
	events  *testutils.MockEventPublisher
	service *app.CatalogService
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	catalog, err := memory.NewSeededCatalogRepository()
	s.Require().NoError(err)

	s.ratings = new(testutils.MockRatingRepository)
	s.events = testutils.NewMockEventPublisher()
	s.service = app.NewCatalogService(catalog, s.ratings, s.events, nil, zaptest.NewLogger(s.T()))
}

func (s *CatalogServiceTestSuite) titles(recipes []recipe.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Title)
	}
	return out
}

func (s *CatalogServiceTestSuite) TestSearchRecipes() {
	cases := []struct {
		name     string
		terms    []string
		expected []string
	}{
		{
			name:  "empty input returns full catalog",
			terms: nil,
			expected: []string{
				"Creamy Mushroom Pasta",
				"Mediterranean Chickpea Salad",
				"Avocado Toast with Poached Egg",
			},
		},
		{
			name:  "blank terms behave like empty input",
			terms: []string{"", "   "},
			expected: []string{
				"Creamy Mushroom Pasta",
				"Mediterranean Chickpea Salad",
				"Avocado Toast with Poached Egg",
			},
		},
		{
			name:     "case insensitive substring",
			terms:    []string{"MUSH"},
			expected: []string{"Creamy Mushroom Pasta"},
		},
		{
			name:     "any term matches and order is kept",
			terms:    []string{"avocado", "chickpea"},
			expected: []string{"Mediterranean Chickpea Salad", "Avocado Toast with Poached Egg"},
		},
		{
			name:     "terms are trimmed",
			terms:    []string{"  garlic  "},
			expected: []string{"Creamy Mushroom Pasta"},
		},
		{
			name:     "shared ingredient matches every recipe",
			terms:    []string{"lemon"},
			expected: []string{"Mediterranean Chickpea Salad", "Avocado Toast with Poached Egg"},
		},
		{
			name:     "no match is empty",
			terms:    []string{"chocolate"},
			expected: []string{},
		},
		{
			name:     "ingredient name inside term does not match",
			terms:    []string{"eggsplosion"},
			expected: []string{},
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			// Act
			got, err := s.service.SearchRecipes(s.ctx, tc.terms)

			// Assert
			s.Require().NoError(err)
			s.Require().NotNil(got)
			s.Equal(tc.expected, s.titles(got))
		})
	}
}

func (s *CatalogServiceTestSuite) TestSearchRecipesWrapsCatalogFailure() {
	// Arrange
	catalog := new(testutils.MockCatalogRepository)
	catalog.On("List", mock.Anything).Return(nil, stderrors.New("connection refused"))
	service := app.NewCatalogService(catalog, s.ratings, s.events, nil, zaptest.NewLogger(s.T()))

	// Act
	_, err := service.SearchRecipes(s.ctx, []string{"pasta"})

	// Assert
	s.True(errors.Is(err, errors.CodeDatabaseError))
}

func (s *CatalogServiceTestSuite) TestGetRecipeByID() {
	r, found, err := s.service.GetRecipeByID(s.ctx, "2")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("Mediterranean Chickpea Salad", r.Title)

	_, found, err = s.service.GetRecipeByID(s.ctx, "999")
	s.Require().NoError(err)
	s.False(found)

	_, found, err = s.service.GetRecipeByID(s.ctx, "")
	s.Require().NoError(err)
	s.False(found)
}

func (s *CatalogServiceTestSuite) TestRateRecipeRecordsOnce() {
	// Arrange
	s.ratings.On("Record", mock.Anything, mock.MatchedBy(func(r recipe.Rating) bool {
		return r.RecipeID == "1" && r.Value == 5
	})).Return(nil).Once()

	// Act
	rating, err := s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{RecipeID: "1", Rating: 5})

	// Assert
	s.Require().NoError(err)
	s.Equal(5, rating.Value)
	s.ratings.AssertNumberOfCalls(s.T(), "Record", 1)
	s.Equal([]string{"recipe.rated"}, s.events.EventNames())
}

func (s *CatalogServiceTestSuite) TestRateRecipeRejectsOutOfRange() {
	for _, value := range []int{0, 6, -1} {
		// Act
		_, err := s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{RecipeID: "1", Rating: value})

		// Assert
		s.True(errors.Is(err, errors.CodeValidationFailed), "rating %d", value)
		s.ErrorIs(err, recipe.ErrInvalidRating)
	}
	s.ratings.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
	s.Empty(s.events.GetPublishedEvents())
}

func (s *CatalogServiceTestSuite) TestRateRecipeUnknownRecipe() {
	_, err := s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{RecipeID: "999", Rating: 3})

	s.True(errors.Is(err, errors.CodeRecipeNotFound))
	s.ratings.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
}

func (s *CatalogServiceTestSuite) TestRateRecipeStoreFailure() {
	// Arrange
	s.ratings.On("Record", mock.Anything, mock.Anything).Return(stderrors.New("disk full")).Once()

	// Act
	_, err := s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{RecipeID: "3", Rating: 4})

	// Assert
	s.True(errors.Is(err, errors.CodeDatabaseError))
	s.Empty(s.events.GetPublishedEvents())
}

func (s *CatalogServiceTestSuite) TestRateRecipeSurvivesPublishFailure() {
	// Arrange
	s.ratings.On("Record", mock.Anything, mock.Anything).Return(nil).Once()
	s.events.On("Publish", mock.Anything, mock.Anything).Return(stderrors.New("broker down"))

	// Act
	_, err := s.service.RateRecipe(s.ctx, inbound.RateRecipeCommand{RecipeID: "2", Rating: 1})

	// Assert
	s.NoError(err)
}

func (s *CatalogServiceTestSuite) TestRatingSummary() {
	s.ratings.On("Summary", mock.Anything, "1").
		Return(recipe.RatingSummary{RecipeID: "1", Count: 2, Average: 4.5}, nil)

	summary, err := s.service.RatingSummary(s.ctx, "1")
	s.Require().NoError(err)
	s.Equal(2, summary.Count)

	_, err = s.service.RatingSummary(s.ctx, "999")
	s.True(errors.Is(err, errors.CodeRecipeNotFound))
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
