package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func static(status Status, message string) Checker {
	return CheckFunc(func(context.Context) Check {
		return Check{Status: status, Message: message}
	})
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_Check_AggregatesStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
	}{
		{"all healthy", map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, StatusHealthy},
		{"one degraded", map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, StatusDegraded},
		{"unhealthy wins", map[string]Status{"a": StatusDegraded, "b": StatusUnhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			hc := New("1.0.0", zap.NewNop())
			for name, status := range tt.statuses {
				hc.Register(name, static(status, ""))
			}

			// Act
			response := hc.Check(context.Background())

			// Assert
			assert.Equal(t, tt.want, response.Status)
			require.Len(t, response.Checks, len(tt.statuses))
			assert.Equal(t, "a", response.Checks[0].Name)
			assert.Equal(t, "b", response.Checks[1].Name)
		})
	}
}

func TestHealthCheck_Check_RunsConcurrently(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	slow := CheckFunc(func(context.Context) Check {
		time.Sleep(100 * time.Millisecond)
		return Check{Status: StatusHealthy}
	})
	for _, name := range []string{"a", "b", "c", "d"} {
		hc.Register(name, slow)
	}

	start := time.Now()
	response := hc.Check(context.Background())

	assert.Len(t, response.Checks, 4)
	assert.GreaterOrEqual(t, response.Checks[0].DurationMS, 100.0)
	assert.Less(t, time.Since(start), 350*time.Millisecond)
}

func TestHealthCheck_Check_Caches(t *testing.T) {
	// Arrange
	var calls int32
	hc := New("1.0.0", zap.NewNop())
	hc.Register("counter", CheckFunc(func(context.Context) Check {
		atomic.AddInt32(&calls, 1)
		return Check{Status: StatusHealthy}
	}))

	// Act
	hc.Check(context.Background())
	hc.Check(context.Background())
	hc.SetCacheTTL(0)
	hc.Check(context.Background())

	// Assert
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name       string
		status     Status
		handler    func(*HealthCheck) http.HandlerFunc
		wantCode   int
		wantStatus string
	}{
		{"health ok", StatusHealthy, (*HealthCheck).Handler, http.StatusOK, "healthy"},
		{"health degraded still 200", StatusDegraded, (*HealthCheck).Handler, http.StatusOK, "degraded"},
		{"health unhealthy", StatusUnhealthy, (*HealthCheck).Handler, http.StatusServiceUnavailable, "unhealthy"},
		{"ready", StatusHealthy, (*HealthCheck).ReadinessHandler, http.StatusOK, "ready"},
		{"not ready", StatusDegraded, (*HealthCheck).ReadinessHandler, http.StatusServiceUnavailable, "not_ready"},
		{"alive regardless", StatusUnhealthy, (*HealthCheck).LivenessHandler, http.StatusOK, "alive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			hc := New("1.0.0", zap.NewNop())
			hc.Register("dep", static(tt.status, "msg"))
			rec := httptest.NewRecorder()

			// Act
			tt.handler(hc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			// Assert
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestSQLChecker(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	check := NewSQLChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)
	assert.NotNil(t, check.Metadata)

	require.NoError(t, sqlDB.Close())
	check = NewSQLChecker(sqlDB).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestRedisChecker_Unreachable(t *testing.T) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	check := NewRedisChecker(client).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestHealthCheck_Check_Timeout(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.timeout = 50 * time.Millisecond
	hc.Register("blocking", CheckFunc(func(ctx context.Context) Check {
		<-ctx.Done()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Check{Status: StatusUnhealthy, Message: "timed out"}
		}
		return Check{Status: StatusHealthy}
	}))

	response := hc.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, response.Status)
	assert.Equal(t, "timed out", response.Checks[0].Message)
}
