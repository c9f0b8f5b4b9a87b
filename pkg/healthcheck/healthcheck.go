// Package healthcheck aggregates dependency probes into the /health,
// /health/live and /health/ready endpoints.
package healthcheck

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// severity orders statuses so the report takes the worst one
func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Check is the outcome of one probe
type Check struct {
	Name       string      `json:"name"`
	Status     Status      `json:"status"`
	Message    string      `json:"message,omitempty"`
	DurationMS float64     `json:"duration_ms"`
	Metadata   interface{} `json:"metadata,omitempty"`
}

// Report is the body of the /health endpoint
type Report struct {
	Status     Status    `json:"status"`
	Version    string    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMS float64   `json:"duration_ms"`
	Checks     []Check   `json:"checks"`
}

// Checker probes one dependency. Name and DurationMS are filled in by
// HealthCheck.
type Checker interface {
	Check(ctx context.Context) Check
}

// CheckFunc adapts a function to Checker
type CheckFunc func(ctx context.Context) Check

func (f CheckFunc) Check(ctx context.Context) Check { return f(ctx) }

// HealthCheck runs the registered checkers and caches the report for
// cacheTTL.
type HealthCheck struct {
	version string
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	checkers map[string]Checker
	cacheTTL time.Duration
	cached   *Report
	expires  time.Time
}

func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		logger:   logger,
		timeout:  10 * time.Second,
		checkers: make(map[string]Checker),
		cacheTTL: 5 * time.Second,
	}
}

// Register adds or replaces a named checker and drops the cached report
func (h *HealthCheck) Register(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = checker
	h.cached = nil
}

func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
	h.cached = nil
}

// Check runs every checker in parallel under a shared timeout. The report
// status is the worst individual status; checks are sorted by name.
func (h *HealthCheck) Check(ctx context.Context) Report {
	h.mu.Lock()
	if h.cached != nil && time.Now().Before(h.expires) {
		report := *h.cached
		h.mu.Unlock()
		return report
	}
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	checkers := make([]Checker, len(names))
	for i, name := range names {
		checkers[i] = h.checkers[name]
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	checks := make([]Check, len(names))
	var wg sync.WaitGroup
	for i := range checkers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			began := time.Now()
			c := checkers[i].Check(ctx)
			c.Name = names[i]
			c.DurationMS = millis(time.Since(began))
			checks[i] = c
		}(i)
	}
	wg.Wait()

	report := Report{
		Status:     StatusHealthy,
		Version:    h.version,
		Timestamp:  start.UTC(),
		DurationMS: millis(time.Since(start)),
		Checks:     checks,
	}
	for _, c := range checks {
		if c.Status.severity() > report.Status.severity() {
			report.Status = c.Status
		}
		if c.Status == StatusUnhealthy {
			h.logger.Warn("Health check failed", zap.String("check", c.Name), zap.String("message", c.Message))
		}
	}

	h.mu.Lock()
	h.cached = &report
	h.expires = time.Now().Add(h.cacheTTL)
	h.mu.Unlock()

	return report
}

// Handler serves the full report. Only unhealthy answers 503; degraded
// dependencies still serve traffic.
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())
		status := http.StatusOK
		if report.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		h.writeJSON(w, status, report)
	}
}

// LivenessHandler answers 200 whenever the process can serve HTTP
func (h *HealthCheck) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "alive"})
	}
}

// ReadinessHandler answers 200 only when every check is healthy
func (h *HealthCheck) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := h.Check(r.Context())
		if report.Status != StatusHealthy {
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"checks": report.Checks,
			})
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ready"})
	}
}

func (h *HealthCheck) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("Failed to write health response", zap.Error(err))
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// poolSaturation is the share of open connections in use above which a
// pool reports degraded
const poolSaturation = 0.9

// NewSQLChecker pings db and reports pool statistics
func NewSQLChecker(db *sql.DB) Checker {
	return CheckFunc(func(ctx context.Context) Check {
		if err := db.PingContext(ctx); err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}

		stats := db.Stats()
		c := Check{
			Status: StatusHealthy,
			Metadata: map[string]int{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"max_open":         stats.MaxOpenConnections,
			},
		}
		// a single-connection pool (sqlite) is always fully in use
		if limit := stats.MaxOpenConnections; limit > 1 && float64(stats.InUse)/float64(limit) > poolSaturation {
			c.Status = StatusDegraded
			c.Message = "connection pool nearly exhausted"
		}
		return c
	})
}

// NewRedisChecker pings the Redis deployment behind client
func NewRedisChecker(client redis.UniversalClient) Checker {
	return CheckFunc(func(ctx context.Context) Check {
		if err := client.Ping(ctx).Err(); err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		stats := client.PoolStats()
		return Check{
			Status: StatusHealthy,
			Metadata: map[string]uint32{
				"total_conns": stats.TotalConns,
				"idle_conns":  stats.IdleConns,
				"timeouts":    stats.Timeouts,
			},
		}
	})
}
