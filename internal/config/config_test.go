package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_USER", "repair")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "4000", cfg.Port)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.True(t, cfg.RateLimit.Enabled)
	require.False(t, cfg.IsProduction())
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("DB_USER", "repair")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadReadsNestedPrefixes(t *testing.T) {
	t.Setenv("DB_USER", "repair")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("RATE_LIMIT_CAPACITY", "5")
	t.Setenv("REDIS_ADDR", "cache:6380")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.RateLimit.Capacity)
	require.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestRateLimitNormalize(t *testing.T) {
	c := RateLimitConfig{RefillInterval: 2 * time.Second}.Normalize()
	require.Equal(t, 1, c.Capacity)
	require.Equal(t, 1, c.RefillTokens)
	require.Equal(t, 10*time.Second, c.TTL)
	require.Equal(t, "rl", c.Prefix)
}
