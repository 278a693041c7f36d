package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadGates_Defaults(t *testing.T) {
	gates := LoadGates()

	assert.Equal(t, ResourceGate{Read: GateAuthenticated, Write: GateAdmin}, gates["movies"])
	assert.Equal(t, ResourceGate{Read: GateAuthenticated, Write: GateAdmin}, gates["directors"])
	assert.Equal(t, ResourceGate{Read: GateOpen, Write: GateOpen}, gates["genres"])
	assert.Equal(t, ResourceGate{Read: GateAdmin, Write: GateAdmin}, gates["users"])
}

func TestLoadGates_Overrides(t *testing.T) {
	t.Setenv("GATE_GENRES_WRITE", "Admin")
	t.Setenv("GATE_MOVIES_READ", "open")
	t.Setenv("GATE_USERS_READ", "bogus")

	gates := LoadGates()

	assert.Equal(t, ResourceGate{Read: GateOpen, Write: GateAdmin}, gates["genres"])
	assert.Equal(t, GateOpen, gates["movies"].Read)
	assert.Equal(t, GateAdmin, gates["users"].Read)
}

func TestParseGatePolicy(t *testing.T) {
	for in, want := range map[string]GatePolicy{
		"open":            GateOpen,
		" AUTHENTICATED ": GateAuthenticated,
		"admin":           GateAdmin,
	} {
		got, ok := ParseGatePolicy(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseGatePolicy("root")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_PORT", "10001")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "movies")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "")
	t.Setenv("PWD_HASH_ITERATIONS", "")

	cfg := Load()

	assert.Equal(t, "10001", cfg.Port)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 130*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, 100_000, cfg.PwdHashIterations)
	assert.Len(t, cfg.Gates, len(Resources))
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "5")
	t.Setenv("RATE_LIMIT_AUTH_CAPACITY", "50")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, 5, cfg.AuthCapacity)
	assert.Equal(t, 5*time.Second, cfg.TTL)

	auth := cfg.WithCapacity(2, "rl-auth")
	assert.Equal(t, 2, auth.Capacity)
	assert.Equal(t, "rl-auth", auth.Prefix)
	assert.Equal(t, 5, cfg.Capacity)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "nonsense")

	cfg := LoadCacheConfig()

	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.True(t, cfg.PurgeOnWrite)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CATALOG_TEST_BOOL", "off")
	t.Setenv("CATALOG_TEST_INT", "abc")
	t.Setenv("CATALOG_TEST_DUR", "90s")

	assert.False(t, envBool("CATALOG_TEST_BOOL", true))
	assert.True(t, envBool("CATALOG_TEST_UNSET", true))
	assert.Equal(t, 7, envInt("CATALOG_TEST_INT", 7))
	assert.Equal(t, 90*time.Second, envDur("CATALOG_TEST_DUR", time.Second))
	assert.Equal(t, "x", envStr("CATALOG_TEST_UNSET", "x"))
}
