package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NtshVrm/VYSONM2A2/internal/config"
)

// RedisDB wraps the Redis client with the cache and rate-limit operations
// the service layer needs. Cache failures are never fatal to a request; the
// database remains the source of truth.
type RedisDB struct {
	Client   *redis.Client
	CacheTTL time.Duration
}

// NewRedisDB creates and validates a Redis connection.
func NewRedisDB(ctx context.Context, cfg config.RedisConfig) (*RedisDB, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}

	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opt.DB = cfg.DB
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opt.MinIdleConns = cfg.MinIdleConns
	}
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping Redis: %w", err)
	}

	return &RedisDB{Client: client, CacheTTL: cfg.CacheTTL}, nil
}

// Close shuts down the Redis connection.
func (r *RedisDB) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Health checks Redis responsiveness with a short timeout.
func (r *RedisDB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}

// LinkCacheKey returns the cache key for a short code. Prefixing keeps link
// entries apart from rate-limit counters in the same Redis database.
func LinkCacheKey(shortCode string) string {
	return "link:" + shortCode
}

// RateLimitKey returns the counter key for an identifier in a given minute
// window.
func RateLimitKey(identifier string, window time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", identifier, window.Unix()/60)
}

// GetJSON retrieves and unmarshals a cached value. The boolean is false on a
// cache miss; a miss is not an error.
func (r *RedisDB) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal cached value: %w", err)
	}
	return true, nil
}

// SetJSON marshals and stores a value with the given TTL.
func (r *RedisDB) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	if err := r.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key. Used to invalidate a link entry after delete or
// expiry update.
func (r *RedisDB) Delete(ctx context.Context, key string) error {
	if err := r.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// IncrementRateLimit atomically increments the counter for key, setting the
// window expiry on the first request.
func (r *RedisDB) IncrementRateLimit(ctx context.Context, key string, windowSize time.Duration) (int64, error) {
	count, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		// First hit in the window; the key must expire with the window.
		_ = r.Client.Expire(ctx, key, windowSize).Err()
	}
	return count, nil
}
