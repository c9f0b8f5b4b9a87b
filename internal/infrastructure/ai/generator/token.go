package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// ErrUnauthorized is returned when the provider rejects the API key
var ErrUnauthorized = errors.New("video provider rejected credentials")

// tokenSkew renews tokens slightly before they expire
const tokenSkew = 30 * time.Second

// defaultTokenTTL applies when neither expires_in nor a JWT exp is known
const defaultTokenTTL = 10 * time.Minute

// Authenticator exchanges an API key for a bearer token and caches it
// until shortly before it expires. It is safe for concurrent use.
type Authenticator struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewAuthenticator creates a token source for the provider at baseURL
func NewAuthenticator(baseURL, apiKey string, client *http.Client, timeout time.Duration, logger *zap.Logger) *Authenticator {
	if client == nil {
		client = http.DefaultClient
	}
	return &Authenticator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		timeout: timeout,
		now:     time.Now,
		logger:  logger.Named("video-auth"),
	}
}

var _ outbound.TokenSource = (*Authenticator)(nil)

type authRequest struct {
	APIKey string `json:"api_key"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token returns a cached token or authenticates for a new one
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.now().Before(a.expires) {
		return a.token, nil
	}

	token, expires, err := a.authenticate(ctx)
	if err != nil {
		return "", err
	}

	a.token = token
	a.expires = expires.Add(-tokenSkew)
	a.logger.Debug("Obtained provider token", zap.Time("expires_at", expires))
	return token, nil
}

// Invalidate drops the cached token so the next call authenticates again
func (a *Authenticator) Invalidate() {
	a.mu.Lock()
	a.token = ""
	a.expires = time.Time{}
	a.mu.Unlock()
}

func (a *Authenticator) authenticate(ctx context.Context) (string, time.Time, error) {
	if a.apiKey == "" {
		return "", time.Time{}, fmt.Errorf("%w: no api key configured", ErrUnauthorized)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	body, err := json.Marshal(authRequest{APIKey: a.apiKey})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read auth response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", time.Time{}, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", time.Time{}, fmt.Errorf("auth error %d: %s", resp.StatusCode, truncate(raw))
	}

	var parsed authResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", time.Time{}, fmt.Errorf("malformed auth response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", time.Time{}, errors.New("malformed auth response: missing access_token")
	}

	return parsed.AccessToken, a.expiry(parsed), nil
}

// expiry prefers expires_in, then the JWT exp claim, then a default
func (a *Authenticator) expiry(resp authResponse) time.Time {
	now := a.now()
	if resp.ExpiresIn > 0 {
		return now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	// The provider signs its tokens; we only read the claim to schedule renewal
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}

	return now.Add(defaultTokenTTL)
}

func truncate(b []byte) string {
	const max = 256
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
