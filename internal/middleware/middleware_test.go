package middleware

import (
	"context"
	"errors"
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
	"github.com/iliyamo/cinema-pos/internal/model"
)

type staticAuth map[string]model.UserProfile

func (a staticAuth) Authenticate(_ context.Context, raw string) (model.UserProfile, error) {
	if u, ok := a[raw]; ok {
		return u, nil
	}
	return model.UserProfile{}, errors.New("nope")
}

func TestJWTAuthAndRole(t *testing.T) {
	e := echo.New()
	authn := staticAuth{
		"admin-token": {Email: "root@star.mx", Role: model.RoleAdmin},
		"cust-token":  {Email: "ana@star.mx", Role: model.RoleCustomer},
	}
	g := e.Group("/x", JWTAuth(authn), RequireRole(model.RoleAdmin))
	g.GET("", func(c echo.Context) error {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		return c.String(http.StatusOK, u.Email)
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer bogus").Code)
	assert.Equal(t, http.StatusForbidden, do("Bearer cust-token").Code)

	rec := do("Bearer admin-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "root@star.mx", rec.Body.String())
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "catalog-cache", MaxBodyBytes: 1 << 20}
	calls := 0
	e := echo.New()
	e.GET("/v1/movies", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"n": calls})
	}, NewRedisCache(cfg, rdb, nil))

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/movies", nil))
		return rec
	}

	first := get()
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get()
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	require.NoError(t, InvalidateCache(context.Background(), rdb, cfg.Prefix))
	third := get()
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil)
	called := false
	h := mw(func(c echo.Context) error { called = true; return nil })
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.NoError(t, h(c))
	assert.True(t, called)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(201, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)
	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, 201, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{1, 2})
	assert.False(t, ok)
}
