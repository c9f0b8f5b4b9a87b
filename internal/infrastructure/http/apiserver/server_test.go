package apiserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	app "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/application/video"
	"github.com/alchemorsel/pantry/internal/infrastructure/ai/generator"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/alchemorsel/pantry/test/testutils"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type ServerTestSuite struct {
	suite.Suite
	server *httptest.Server
	events *testutils.MockEventPublisher
}

func (s *ServerTestSuite) SetupTest() {
	logger := zaptest.NewLogger(s.T())

	catalog, err := memory.NewSeededCatalogRepository()
	s.Require().NoError(err)
	s.events = testutils.NewMockEventPublisher()
	metrics := monitoring.NewMetrics()

	catalogService := app.NewCatalogService(catalog, memory.NewRatingRepository(), s.events, metrics, logger)
	videoService := video.NewService(
		catalog,
		memory.NewVideoCache(0),
		generator.NewKeywordGenerator(),
		s.events,
		metrics,
		video.DefaultConfig(),
		logger,
	)

	cfg := &config.Config{
		App:    config.AppConfig{Name: "pantry", Version: "test"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080, RequestTimeout: 5 * time.Second},
	}
	health := healthcheck.New("test", logger)

	srv := apiserver.New(cfg, logger, catalogService, videoService, metrics, health)
	s.server = httptest.NewServer(srv.Handler())
}

func (s *ServerTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ServerTestSuite) do(method, path, contentType, body string) (*http.Response, envelope) {
	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	s.Require().NoError(err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (s *ServerTestSuite) recipeIDs(data json.RawMessage) []string {
	var recipes []struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(data, &recipes))

	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}

func (s *ServerTestSuite) TestSearch() {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no terms lists catalog", "", []string{"1", "2", "3"}},
		{"comma separated", "?ingredients=pasta", []string{"1"}},
		{"case insensitive", "?ingredients=LEMON", []string{"2", "3"}},
		{"repeated parameter", "?ingredient=egg&ingredient=chickpea", []string{"2", "3"}},
		{"no match", "?ingredients=durian", []string{}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			// Act
			resp, env := s.do(http.MethodGet, "/api/v1/recipes"+tt.query, "", "")

			// Assert
			s.Equal(http.StatusOK, resp.StatusCode)
			s.True(env.Success)
			s.Equal(tt.want, s.recipeIDs(env.Data))
		})
	}
}

func (s *ServerTestSuite) TestGetRecipe() {
	resp, env := s.do(http.MethodGet, "/api/v1/recipes/2", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)

	var r struct {
		Title string `json:"title"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &r))
	s.Equal("Mediterranean Chickpea Salad", r.Title)

	resp, env = s.do(http.MethodGet, "/api/v1/recipes/999", "", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.False(env.Success)
	s.Equal("RECIPE_NOT_FOUND", env.Error)
}

func (s *ServerTestSuite) TestGenerateVideo() {
	// Act
	resp, env := s.do(http.MethodPost, "/api/v1/recipes/1/video", "", "")

	// Assert
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var first struct {
		URL     string `json:"url"`
		Outcome string `json:"outcome"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &first))
	s.Equal(generator.SampleBaseURL+"ForBiggerBlazes.mp4", first.URL)
	s.Equal("generated", first.Outcome)

	_, env = s.do(http.MethodPost, "/api/v1/recipes/1/video", "", "")
	var second struct {
		URL     string `json:"url"`
		Outcome string `json:"outcome"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &second))
	s.Equal(first.URL, second.URL)
	s.Equal("cache_hit", second.Outcome)
	s.Equal("Video loaded from cache", env.Message)

	resp, env = s.do(http.MethodPost, "/api/v1/recipes/999/video", "", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("RECIPE_NOT_FOUND", env.Error)
}

func (s *ServerTestSuite) TestRating() {
	// Act
	resp, env := s.do(http.MethodPost, "/api/v1/recipes/3/rating", "application/json", `{"rating":4}`)

	// Assert
	s.Equal(http.StatusCreated, resp.StatusCode, env.Message)
	s.Contains(s.events.EventNames(), "recipe.rated")

	resp, env = s.do(http.MethodGet, "/api/v1/recipes/3/rating", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	var summary struct {
		Count   int     `json:"count"`
		Average float64 `json:"average"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &summary))
	s.Equal(1, summary.Count)
	s.InDelta(4.0, summary.Average, 0.001)
}

func (s *ServerTestSuite) TestRatingRejected() {
	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantError   string
	}{
		{"above range", "/api/v1/recipes/1/rating", "application/json", `{"rating":6}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"below range", "/api/v1/recipes/1/rating", "application/json", `{"rating":0}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"malformed", "/api/v1/recipes/1/rating", "application/json", `{"rating":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown recipe", "/api/v1/recipes/999/rating", "application/json", `{"rating":3}`, http.StatusNotFound, "RECIPE_NOT_FOUND"},
		{"not json", "/api/v1/recipes/1/rating", "text/plain", `rating=3`, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, env := s.do(http.MethodPost, tt.path, tt.contentType, tt.body)

			s.Equal(tt.wantStatus, resp.StatusCode)
			s.False(env.Success)
			s.Equal(tt.wantError, env.Error)
		})
	}
	s.NotContains(s.events.EventNames(), "recipe.rated")
}

func (s *ServerTestSuite) TestOperationalEndpoints() {
	resp, _ := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/openapi.yaml", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/yaml", resp.Header.Get("Content-Type"))

	s.do(http.MethodGet, "/api/v1/recipes/1", "", "")
	resp, err := s.server.Client().Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), "pantry_http_requests_total")
	s.Contains(string(body), `recipes/{id}",status_code="200"`)
}

func (s *ServerTestSuite) TestSecurityHeaders() {
	resp, _ := s.do(http.MethodGet, "/api/v1/recipes", "", "")

	s.Equal("nosniff", resp.Header.Get("X-Content-Type-Options"))
	s.Equal("DENY", resp.Header.Get("X-Frame-Options"))
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
