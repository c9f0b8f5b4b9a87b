package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// RemoteConfig configures the remote provider
type RemoteConfig struct {
	BaseURL        string
	Model          string
	RequestTimeout time.Duration
}

// invalidator is implemented by token sources that cache credentials
type invalidator interface {
	Invalidate()
}

// RemoteGenerator asks a hosted provider to render a recipe video
type RemoteGenerator struct {
	baseURL string
	model   string
	tokens  outbound.TokenSource
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient returns a traced HTTP client for provider calls
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewRemoteGenerator creates a generator that calls the provider API
func NewRemoteGenerator(cfg RemoteConfig, tokens outbound.TokenSource, client *http.Client, logger *zap.Logger) *RemoteGenerator {
	if client == nil {
		client = NewHTTPClient(cfg.RequestTimeout)
	}
	return &RemoteGenerator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		tokens:  tokens,
		client:  client,
		logger:  logger.Named("remote-video-generator"),
	}
}

var _ outbound.VideoGenerator = (*RemoteGenerator)(nil)

type videoRequest struct {
	Model    string `json:"model,omitempty"`
	RecipeID string `json:"recipe_id"`
	Title    string `json:"title"`
	Script   string `json:"script"`
}

type videoResponse struct {
	VideoURL string `json:"video_url"`
	Status   string `json:"status,omitempty"`
}

// Generate submits the script and returns the provider's video URL
func (g *RemoteGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	start := time.Now()

	videoURL, err := g.generate(ctx, req)
	if errors.Is(err, ErrUnauthorized) {
		// A cached token may have been revoked; retry once with a fresh one
		if inv, ok := g.tokens.(invalidator); ok {
			inv.Invalidate()
			videoURL, err = g.generate(ctx, req)
		}
	}

	if err != nil {
		g.logger.Warn("Video generation request failed",
			zap.String("recipe_id", req.Recipe.ID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}

	g.logger.Info("Video generated",
		zap.String("recipe_id", req.Recipe.ID),
		zap.Duration("duration", time.Since(start)),
	)
	return videoURL, nil
}

func (g *RemoteGenerator) generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	body, err := json.Marshal(videoRequest{
		Model:    g.model,
		RecipeID: req.Recipe.ID,
		Title:    req.Recipe.Title,
		Script:   req.Script,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/videos", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, truncate(raw))
	}

	var parsed videoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("malformed response: %w", err)
	}
	if parsed.VideoURL == "" {
		return "", errors.New("malformed response: missing video_url")
	}
	if u, err := url.Parse(parsed.VideoURL); err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("malformed response: invalid video_url %q", parsed.VideoURL)
	}

	return parsed.VideoURL, nil
}
