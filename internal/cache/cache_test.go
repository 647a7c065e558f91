package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksr-21/smartstock/internal/config"
)

func TestExplanationKey(t *testing.T) {
	key := ExplanationKey("system", "prompt")

	assert.True(t, strings.HasPrefix(key, "explain:"))
	assert.Len(t, key, len("explain:")+40)
	assert.Equal(t, key, ExplanationKey("system", "prompt"))
	assert.NotEqual(t, key, ExplanationKey("systemp", "rompt"))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewExplanationCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "s", "p", "text"))

	_, ok, err := c.Get(ctx, "s", "p")
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := c.InvalidateAll(ctx)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, c.Close())
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisPassword: "secret", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://cache.internal:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}

func TestExplanationTTL(t *testing.T) {
	assert.Equal(t, time.Hour, explanationTTL(config.CacheConfig{}))
	assert.Equal(t, 90*time.Second, explanationTTL(config.CacheConfig{ExplanationTTLSeconds: 90}))
}

func newMiniredisCache(t *testing.T) (*miniredis.Miniredis, ExplanationCache) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := NewExplanationCache(config.CacheConfig{
		Enabled:               true,
		RedisURL:              "redis://" + mr.Addr(),
		ExplanationTTLSeconds: 60,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr, c := newMiniredisCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "s", "p")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "s", "p", "Restock coffee before Friday."))
	text, ok, err := c.Get(ctx, "s", "p")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Restock coffee before Friday.", text)
	assert.Equal(t, time.Minute, mr.TTL(ExplanationKey("s", "p")))
}

func TestRedisInvalidateAllKeepsForeignKeys(t *testing.T) {
	mr, c := newMiniredisCache(t)
	ctx := context.Background()

	for i := 0; i < explanationScanBatchSize+5; i++ {
		require.NoError(t, c.Set(ctx, "s", fmt.Sprintf("prompt-%d", i), "text"))
	}
	require.NoError(t, mr.Set("session:abc", "keep me"))

	n, err := c.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, explanationScanBatchSize+5, n)

	_, ok, err := c.Get(ctx, "s", "prompt-0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("session:abc"))
}

func TestEnabledCacheFailsWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewExplanationCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + addr})
	assert.Error(t, err)
}
