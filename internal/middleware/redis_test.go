package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func keysWithPrefix(mr *miniredis.Miniredis, prefix string) []string {
	var out []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

func hit(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCache_HitMissAndPurge(t *testing.T) {
	mr, rdb := newRedis(t)
	cache := NewRedisCache(config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "catalog-cache",
		PurgeOnWrite: true,
	}, rdb)

	movieReads, genreReads := 0, 0
	e := echo.New()
	e.GET("/movies", func(c echo.Context) error {
		movieReads++
		return c.JSON(http.StatusOK, []echo.Map{{"id": 1, "title": "Heat"}})
	}, cache)
	e.PUT("/movies/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, cache)
	e.GET("/genres", func(c echo.Context) error {
		genreReads++
		return c.JSON(http.StatusOK, []echo.Map{})
	}, cache)

	first := hit(e, http.MethodGet, "/movies")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := hit(e, http.MethodGet, "/movies")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	assert.Equal(t, 1, movieReads)

	assert.Equal(t, "MISS", hit(e, http.MethodGet, "/genres").Header().Get("X-Cache"))
	assert.Len(t, keysWithPrefix(mr, "catalog-cache:movies:"), 1)
	assert.Len(t, keysWithPrefix(mr, "catalog-cache:genres:"), 1)

	assert.Equal(t, http.StatusNoContent, hit(e, http.MethodPut, "/movies/1").Code)
	assert.Empty(t, keysWithPrefix(mr, "catalog-cache:movies:"))
	assert.Len(t, keysWithPrefix(mr, "catalog-cache:genres:"), 1)

	third := hit(e, http.MethodGet, "/movies")
	assert.Equal(t, "MISS", third.Header().Get("X-Cache"))
	assert.Equal(t, 2, movieReads)

	assert.Equal(t, "HIT", hit(e, http.MethodGet, "/genres").Header().Get("X-Cache"))
	assert.Equal(t, 1, genreReads)
}

func TestRedisCache_SkipsErrorsAndFailedWrites(t *testing.T) {
	mr, rdb := newRedis(t)
	cache := NewRedisCache(config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		Prefix:       "catalog-cache",
		PurgeOnWrite: true,
	}, rdb)

	e := echo.New()
	e.GET("/movies/:id", func(c echo.Context) error {
		if c.Param("id") == "404" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	}, cache)
	e.DELETE("/movies/:id", func(c echo.Context) error {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}, cache)

	hit(e, http.MethodGet, "/movies/404")
	assert.Empty(t, keysWithPrefix(mr, "catalog-cache:movies:"))

	hit(e, http.MethodGet, "/movies/1")
	require.Len(t, keysWithPrefix(mr, "catalog-cache:movies:"), 1)

	hit(e, http.MethodDelete, "/movies/1")
	assert.Len(t, keysWithPrefix(mr, "catalog-cache:movies:"), 1)
}

func limiterConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func TestTokenBucket_Throttles(t *testing.T) {
	_, rdb := newRedis(t)
	e := echo.New()
	e.GET("/movies", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(limiterConfig(3), rdb))

	for i, want := range []string{"2", "1", "0"} {
		rec := hit(e, http.MethodGet, "/movies")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, want, rec.Header().Get("X-RateLimit-Remaining"))
	}

	rec := hit(e, http.MethodGet, "/movies")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.True(t, retry > 0 && retry <= 60, "Retry-After=%d", retry)
	assert.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestTokenBucket_AuthBucketIsSmaller(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := limiterConfig(5)

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.POST("/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		NewTokenBucket(cfg.WithCapacity(2, cfg.Prefix+":auth"), rdb))
	e.GET("/genres", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusCreated, hit(e, http.MethodPost, "/auth/login").Code)
	assert.Equal(t, http.StatusCreated, hit(e, http.MethodPost, "/auth/login").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(e, http.MethodPost, "/auth/login").Code)

	assert.Equal(t, http.StatusOK, hit(e, http.MethodGet, "/genres").Code)
}

func TestTokenBucket_FailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	e := echo.New()
	e.GET("/movies", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, NewTokenBucket(limiterConfig(1), rdb))

	mr.Close()
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(e, http.MethodGet, "/movies").Code)
	}
}
