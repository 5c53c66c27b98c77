package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-pos/internal/config"
)

func limitedEcho(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.POST("/v1/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewRateLimiter(cfg, rdb, nil))
	return e
}

func post(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterBlocksAfterCapacity(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		Prefix:         "rl",
	}
	e := limitedEcho(t, cfg, rdb)

	first := post(e, "10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, post(e, "10.0.0.1").Code)

	blocked := post(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	// another client has its own bucket
	assert.Equal(t, http.StatusOK, post(e, "10.0.0.2").Code)

	keys := mr.Keys()
	require.Len(t, keys, 2)
	assert.Contains(t, keys, "rl:ip:10.0.0.1:user:guest:route:POST /v1/auth/login")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, Prefix: "rl"}
	e := limitedEcho(t, cfg, rdb)
	mr.Close()

	assert.Equal(t, http.StatusOK, post(e, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, post(e, "10.0.0.1").Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	e := limitedEcho(t, config.RateLimitConfig{Enabled: false, Capacity: 1}, nil)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(e, "10.0.0.1").Code)
	}
}
