package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksr-21/smartstock/internal/cache"
	"github.com/ksr-21/smartstock/internal/config"
)

func TestDropCachedExplanations(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.CacheConfig{Enabled: true, RedisURL: "redis://" + mr.Addr()}
	ctx := context.Background()

	explanations, err := cache.NewExplanationCache(cfg)
	require.NoError(t, err)
	defer explanations.Close()
	require.NoError(t, explanations.Set(ctx, "", "Product: Organic Coffee Beans", "Restock 35 kg."))
	require.NoError(t, explanations.Set(ctx, "", "Product: Basmati Rice", "Stock is fine."))
	require.NoError(t, mr.Set("other:key", "untouched"))

	assert.Equal(t, 2, dropCachedExplanations(ctx, cfg))

	_, ok, err := explanations.Get(ctx, "", "Product: Organic Coffee Beans")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mr.Exists("other:key"))
}

func TestDropCachedExplanationsToleratesMissingCache(t *testing.T) {
	assert.Zero(t, dropCachedExplanations(context.Background(), config.CacheConfig{Enabled: false}))

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	assert.Zero(t, dropCachedExplanations(context.Background(), config.CacheConfig{Enabled: true, RedisURL: "redis://" + addr}))
}
