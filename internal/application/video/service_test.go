package video_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/alchemorsel/pantry/internal/application/video"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/test/testutils"
)

const generatedURL = "https://videos.example.com/pasta.mp4"

type VideoServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	catalog   *memory.CatalogRepository
	cache     *testutils.MockVideoCache
	generator *testutils.MockVideoGenerator
	events    *testutils.MockEventPublisher
	config    video.Config
}

func (s *VideoServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	catalog, err := memory.NewSeededCatalogRepository()
	s.Require().NoError(err)
	s.catalog = catalog

	s.cache = new(testutils.MockVideoCache)
	s.generator = new(testutils.MockVideoGenerator)
	s.events = testutils.NewMockEventPublisher()
	s.config = video.Config{
		FallbackEnabled:   true,
		FallbackURL:       video.DefaultFallbackURL,
		GenerationTimeout: time.Second,
		CacheTimeout:      100 * time.Millisecond,
	}
}

func (s *VideoServiceTestSuite) service() *video.Service {
	return video.NewService(s.catalog, s.cache, s.generator, s.events, nil, s.config, zaptest.NewLogger(s.T()))
}

func (s *VideoServiceTestSuite) forRecipe(id string) interface{} {
	return mock.MatchedBy(func(req outbound.GenerationRequest) bool {
		return req.Recipe.ID == id && req.Script != ""
	})
}

func (s *VideoServiceTestSuite) TestUnknownRecipeNeverCallsGenerator() {
	// Act
	result, err := s.service().GenerateVideo(s.ctx, "999")

	// Assert
	s.Nil(result)
	s.True(errors.Is(err, errors.CodeRecipeNotFound))
	s.ErrorIs(err, recipe.ErrRecipeNotFound)
	s.generator.AssertNotCalled(s.T(), "Generate", mock.Anything, mock.Anything)
	s.cache.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything)
}

func (s *VideoServiceTestSuite) TestCatalogFailureIsDatabaseErrorNotFallback() {
	// Arrange
	storeErr := stderrors.New("pq: connection refused")
	catalog := new(testutils.MockCatalogRepository)
	catalog.On("FindByID", mock.Anything, "1").Return(recipe.Recipe{}, false, storeErr)
	service := video.NewService(catalog, s.cache, s.generator, s.events, nil, s.config, zaptest.NewLogger(s.T()))

	// Act
	result, err := service.GenerateVideo(s.ctx, "1")

	// Assert
	s.Nil(result)
	s.True(errors.Is(err, errors.CodeDatabaseError))
	s.ErrorIs(err, storeErr)
	s.False(errors.Is(err, errors.CodeRecipeNotFound))
	s.cache.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything)
	s.generator.AssertNotCalled(s.T(), "Generate", mock.Anything, mock.Anything)
	s.Empty(s.events.EventNames())
	catalog.AssertExpectations(s.T())
}

func (s *VideoServiceTestSuite) TestCacheHitSkipsGenerator() {
	// Arrange
	s.cache.On("Get", mock.Anything, "1").Return(generatedURL, true, nil)

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "1")

	// Assert
	s.Require().NoError(err)
	s.Equal(generatedURL, result.URL)
	s.Equal(inbound.VideoOutcomeCacheHit, result.Outcome)
	s.False(result.Persisted)
	s.generator.AssertNotCalled(s.T(), "Generate", mock.Anything, mock.Anything)
	s.cache.AssertNotCalled(s.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.Equal([]string{"recipe.video.resolved"}, s.events.EventNames())
}

func (s *VideoServiceTestSuite) TestMissGeneratesAndPersists() {
	// Arrange
	s.cache.On("Get", mock.Anything, "1").Return("", false, nil)
	s.generator.On("Generate", mock.Anything, s.forRecipe("1")).Return(generatedURL, nil).Once()
	s.cache.On("Put", mock.Anything, "1", generatedURL, mock.AnythingOfType("time.Time")).Return(nil).Once()

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "1")

	// Assert
	s.Require().NoError(err)
	s.Equal(generatedURL, result.URL)
	s.Equal(inbound.VideoOutcomeGenerated, result.Outcome)
	s.True(result.Persisted)
	s.NoError(result.GenerationError)
	s.cache.AssertExpectations(s.T())
	s.generator.AssertExpectations(s.T())
}

func (s *VideoServiceTestSuite) TestEmptyCachedValueIsMiss() {
	// Arrange
	s.cache.On("Get", mock.Anything, "2").Return("", true, nil)
	s.generator.On("Generate", mock.Anything, s.forRecipe("2")).Return(generatedURL, nil).Once()
	s.cache.On("Put", mock.Anything, "2", generatedURL, mock.Anything).Return(nil)

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "2")

	// Assert
	s.Require().NoError(err)
	s.Equal(inbound.VideoOutcomeGenerated, result.Outcome)
}

func (s *VideoServiceTestSuite) TestCacheErrorIsMiss() {
	// Arrange
	s.cache.On("Get", mock.Anything, "3").Return("", false, stderrors.New("redis: connection refused"))
	s.generator.On("Generate", mock.Anything, s.forRecipe("3")).Return(generatedURL, nil).Once()
	s.cache.On("Put", mock.Anything, "3", generatedURL, mock.Anything).Return(nil)

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "3")

	// Assert
	s.Require().NoError(err)
	s.Equal(generatedURL, result.URL)
	s.Equal(inbound.VideoOutcomeGenerated, result.Outcome)
}

func (s *VideoServiceTestSuite) TestGenerationFailureReturnsFallbackWithoutPersisting() {
	// Arrange
	providerErr := stderrors.New("provider returned 503")
	s.cache.On("Get", mock.Anything, "1").Return("", false, nil)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return("", providerErr)

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "1")

	// Assert
	s.Require().NoError(err)
	s.Equal(video.DefaultFallbackURL, result.URL)
	s.True(result.FallbackUsed())
	s.False(result.Persisted)
	s.ErrorIs(result.GenerationError, recipe.ErrGenerationFailed)
	s.ErrorIs(result.GenerationError, providerErr)
	s.cache.AssertNotCalled(s.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *VideoServiceTestSuite) TestEmptyGeneratedURLFallsBack() {
	// Arrange
	s.cache.On("Get", mock.Anything, "1").Return("", false, nil)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return("", nil)

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "1")

	// Assert
	s.Require().NoError(err)
	s.Equal(inbound.VideoOutcomeFallback, result.Outcome)
	s.ErrorIs(result.GenerationError, recipe.ErrEmptyVideoURL)
}

func (s *VideoServiceTestSuite) TestGenerationTimeoutFallsBack() {
	// Arrange
	s.config.GenerationTimeout = 20 * time.Millisecond
	s.cache.On("Get", mock.Anything, "1").Return("", false, nil)
	s.generator.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "1")

	// Assert
	s.Require().NoError(err)
	s.True(result.FallbackUsed())
	s.ErrorIs(result.GenerationError, context.DeadlineExceeded)
}

func (s *VideoServiceTestSuite) TestFallbackDisabledSurfacesError() {
	// Arrange
	s.config.FallbackEnabled = false
	s.cache.On("Get", mock.Anything, "1").Return("", false, nil)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return("", stderrors.New("quota exceeded"))

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "1")

	// Assert
	s.Nil(result)
	s.True(errors.Is(err, errors.CodeExternalServiceError))
	s.ErrorIs(err, recipe.ErrGenerationFailed)
	s.Empty(s.events.GetPublishedEvents())
}

func (s *VideoServiceTestSuite) TestPersistFailureStillReturnsURL() {
	// Arrange
	s.cache.On("Get", mock.Anything, "2").Return("", false, nil)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return(generatedURL, nil)
	s.cache.On("Put", mock.Anything, "2", generatedURL, mock.Anything).Return(stderrors.New("read-only replica"))

	// Act
	result, err := s.service().GenerateVideo(s.ctx, "2")

	// Assert
	s.Require().NoError(err)
	s.Equal(generatedURL, result.URL)
	s.Equal(inbound.VideoOutcomeGenerated, result.Outcome)
	s.False(result.Persisted)
}

func (s *VideoServiceTestSuite) TestSecondCallHitsRealCache() {
	// Arrange
	cache := memory.NewVideoCache(0)
	s.generator.On("Generate", mock.Anything, mock.Anything).Return(generatedURL, nil).Once()
	service := video.NewService(s.catalog, cache, s.generator, s.events, nil, s.config, zaptest.NewLogger(s.T()))

	// Act
	first, err := service.GenerateVideo(s.ctx, "1")
	s.Require().NoError(err)
	second, err := service.GenerateVideo(s.ctx, "1")
	s.Require().NoError(err)

	// Assert
	s.Equal(inbound.VideoOutcomeGenerated, first.Outcome)
	s.Equal(inbound.VideoOutcomeCacheHit, second.Outcome)
	s.Equal(first.URL, second.URL)
	s.generator.AssertNumberOfCalls(s.T(), "Generate", 1)
}

func TestVideoServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VideoServiceTestSuite))
}

func TestBuildScript(t *testing.T) {
	recipes := memory.SeedRecipes()

	script := video.BuildScript(recipes[1])

	assert.Contains(t, script, "Mediterranean Chickpea Salad.")
	assert.Contains(t, script, "A refreshing salad with chickpeas, cucumber, tomatoes, and feta cheese.")
	assert.Contains(t, script, "Ingredients: 400 g Chickpeas, 1 medium Cucumber")
	// Empty units collapse
	assert.Contains(t, script, "1/2 Red Onion, ")
	assert.Contains(t, script, "Instructions: Drain and rinse the chickpeas. Dice the cucumber")
	assert.NotContains(t, script, "  ")
}
