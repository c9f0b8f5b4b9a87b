package generator

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// MirroringGenerator copies generated videos into object storage so the
// returned URL does not depend on the provider keeping the file.
// Mirroring is best effort: on failure the provider URL is returned.
type MirroringGenerator struct {
	next     outbound.VideoGenerator
	storage  outbound.ObjectStorage
	client   *http.Client
	prefix   string
	maxBytes int64
	logger   *zap.Logger
}

// NewMirroringGenerator wraps next so its videos are re-hosted in storage
func NewMirroringGenerator(next outbound.VideoGenerator, storage outbound.ObjectStorage, client *http.Client, prefix string, maxBytes int64, logger *zap.Logger) *MirroringGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &MirroringGenerator{
		next:     next,
		storage:  storage,
		client:   client,
		prefix:   strings.Trim(prefix, "/"),
		maxBytes: maxBytes,
		logger:   logger.Named("video-mirror"),
	}
}

// Generate delegates, then mirrors the result
func (g *MirroringGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (string, error) {
	providerURL, err := g.next.Generate(ctx, req)
	if err != nil || providerURL == "" {
		return providerURL, err
	}

	mirrored, err := g.mirror(ctx, req.Recipe.ID, providerURL)
	if err != nil {
		g.logger.Warn("Failed to mirror video, returning provider URL",
			zap.String("recipe_id", req.Recipe.ID),
			zap.String("url", providerURL),
			zap.Error(err),
		)
		return providerURL, nil
	}

	g.logger.Info("Mirrored video",
		zap.String("recipe_id", req.Recipe.ID),
		zap.String("url", mirrored),
	)
	return mirrored, nil
}

func (g *MirroringGenerator) mirror(ctx context.Context, recipeID, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download video: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download video, status: %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if g.maxBytes > 0 {
		body = io.LimitReader(resp.Body, g.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read video data: %w", err)
	}
	if g.maxBytes > 0 && int64(len(data)) > g.maxBytes {
		return "", fmt.Errorf("video exceeds %d bytes", g.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}

	return g.storage.Upload(ctx, g.objectKey(recipeID, sourceURL, contentType), data, contentType)
}

func (g *MirroringGenerator) objectKey(recipeID, sourceURL, contentType string) string {
	ext := path.Ext(strings.SplitN(sourceURL, "?", 2)[0])
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = ".mp4"
		}
	}

	key := fmt.Sprintf("%s/%s%s", recipeID, uuid.New().String(), ext)
	if g.prefix != "" {
		key = g.prefix + "/" + key
	}
	return key
}
