package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/repair-shop/internal/config"
)

func limiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Minute,
		TTL: 10 * time.Minute, KeyStrategy: "ip", Prefix: "rl",
	}.Normalize()
}

func TestRateLimitBlocksWhenBucketIsEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	h := chain(ok, RateLimit(limiterConfig(), rdb, nil))

	for i := 0; i < 2; i++ {
		c, rec := newContext("/api/tickets", nil)
		require.NoError(t, h(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	c, rec := newContext("/api/tickets", nil)
	err := h(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusTooManyRequests, he.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitPassesThroughWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	h := chain(ok, RateLimit(limiterConfig(), rdb, nil))
	mr.Close()

	for i := 0; i < 5; i++ {
		c, _ := newContext("/api/tickets", nil)
		require.NoError(t, h(c))
	}
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := limiterConfig()
	cfg.Enabled = false
	h := chain(ok, RateLimit(cfg, nil, nil))
	c, rec := newContext("/", nil)
	require.NoError(t, h(c))
	require.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateKeyStrategies(t *testing.T) {
	c, _ := newContext("/api/tickets", http.Header{"X-Real-Ip": {"10.0.0.1"}})
	cfg := limiterConfig()
	require.Equal(t, "rl:ip:10.0.0.1", rateKey(cfg, c))
	cfg.KeyStrategy = "ip_user"
	require.Equal(t, "rl:ip:10.0.0.1:user:anon", rateKey(cfg, c))
}
