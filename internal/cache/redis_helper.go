package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksr-21/smartstock/internal/config"
)

const (
	defaultCacheTTL  = time.Hour
	redisDialTimeout = 5 * time.Second
)

// dialRedis connects and pings, so a misconfigured cache fails at startup
// rather than on the first explanation.
func dialRedis(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return client, nil
}

// explanationTTL is how long an advisor answer stays cached.
func explanationTTL(cfg config.CacheConfig) time.Duration {
	if cfg.ExplanationTTLSeconds <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(cfg.ExplanationTTLSeconds) * time.Second
}

// redisOptions prefers REDIS_URL and otherwise assembles host, port, password
// and db.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// unlinkPrefix removes every key under prefix in batches of batch keys and
// returns how many were removed.
func unlinkPrefix(ctx context.Context, client *redis.Client, prefix string, batch int) (int, error) {
	iter := client.Scan(ctx, 0, prefix+"*", int64(batch)).Iterator()

	removed := 0
	pending := make([]string, 0, batch)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		n, err := client.Unlink(ctx, pending...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink: %w", err)
		}
		removed += int(n)
		pending = pending[:0]
		return nil
	}

	for iter.Next(ctx) {
		pending = append(pending, iter.Val())
		if len(pending) == batch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan: %w", err)
	}

	return removed, flush()
}
