package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksr-21/smartstock/internal/config"
)

const (
	explanationKeyPrefix     = "explain:"
	explanationScanBatchSize = 100
)

// ExplanationCache stores generated advisor text keyed by prompt.
type ExplanationCache interface {
	Get(ctx context.Context, system, prompt string) (string, bool, error)
	Set(ctx context.Context, system, prompt, text string) error
	// InvalidateAll drops every cached answer and reports how many were dropped.
	InvalidateAll(ctx context.Context) (int, error)
	Close() error
}

type redisExplanationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopExplanationCache struct{}

// NewExplanationCache connects to Redis when caching is enabled and falls
// back to a no-op cache otherwise.
func NewExplanationCache(cfg config.CacheConfig) (ExplanationCache, error) {
	if !cfg.Enabled {
		return &noopExplanationCache{}, nil
	}

	client, err := dialRedis(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisExplanationCache(client, explanationTTL(cfg)), nil
}

// NewRedisExplanationCache wraps an existing client.
func NewRedisExplanationCache(client *redis.Client, ttl time.Duration) ExplanationCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &redisExplanationCache{client: client, ttl: ttl}
}

func NewNoopExplanationCache() ExplanationCache {
	return &noopExplanationCache{}
}

func (c *redisExplanationCache) Get(ctx context.Context, system, prompt string) (string, bool, error) {
	text, err := c.client.Get(ctx, ExplanationKey(system, prompt)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return text, true, nil
}

func (c *redisExplanationCache) Set(ctx context.Context, system, prompt, text string) error {
	if err := c.client.Set(ctx, ExplanationKey(system, prompt), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisExplanationCache) InvalidateAll(ctx context.Context) (int, error) {
	return unlinkPrefix(ctx, c.client, explanationKeyPrefix, explanationScanBatchSize)
}

func (c *redisExplanationCache) Close() error {
	return c.client.Close()
}

func (n *noopExplanationCache) Get(ctx context.Context, system, prompt string) (string, bool, error) {
	return "", false, nil
}

func (n *noopExplanationCache) Set(ctx context.Context, system, prompt, text string) error {
	return nil
}

func (n *noopExplanationCache) InvalidateAll(ctx context.Context) (int, error) {
	return 0, nil
}

func (n *noopExplanationCache) Close() error {
	return nil
}

// ExplanationKey is the Redis key for a system/prompt pair.
func ExplanationKey(system, prompt string) string {
	hash := sha1.Sum([]byte(system + "\x00" + prompt))
	return explanationKeyPrefix + hex.EncodeToString(hash[:])
}
