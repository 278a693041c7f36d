package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "movies", resourceOf("/movies"))
	assert.Equal(t, "movies", resourceOf("/movies/:id"))
	assert.Equal(t, "genres", resourceOf("genres/:id"))
	assert.Equal(t, "root", resourceOf("/"))
}

func TestCacheKeyFrom(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "catalog-cache", KeyStrategy: "route_query"}
	e := echo.New()

	key := func(target string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetPath("/movies")
		return cacheKeyFrom(cfg, c)
	}

	a := key("/movies?year=1999")
	b := key("/movies?year=2000")
	assert.True(t, strings.HasPrefix(a, "catalog-cache:movies:"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, key("/movies?year=1999"))

	cfg.KeyStrategy = "route"
	assert.Equal(t, key("/movies?year=1999"), key("/movies?year=2000"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated())
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRedisMiddleware_PassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	e.GET("/genres", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewRedisCache(config.CacheConfig{Enabled: true, TTL: time.Minute}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil),
	)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/genres", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	require.True(t, ok)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
	assert.Zero(t, retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{int64(0), int64(0), int64(-5)})
	require.True(t, ok)
	assert.False(t, allowed)
	assert.Zero(t, retry)

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/auth/login")

	cfg := config.RateLimitConfig{Prefix: "rl:auth", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:auth:ip:10.0.0.7:route:POST /auth/login", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_user"
	assert.Equal(t, "rl:auth:ip:10.0.0.7:user:anon", buildRateKey(cfg, c))
}
