// Package cache is a JSON-over-redis cache. A nil *Store is valid and
// behaves as an always-miss cache, so the service runs without redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/shopadmin/config"
	"github.com/shashiranjanraj/shopadmin/pkg/logger"
	"github.com/shashiranjanraj/shopadmin/pkg/metrics"
)

// Store wraps a redis client with a default TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect dials REDIS_ADDR and pings it.
func Connect(ctx context.Context) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return New(rdb, config.CacheTTL()), nil
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Get unmarshals key into dest and reports a hit.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if s == nil || s.rdb == nil {
		return false
	}

	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithCtx(ctx).Warn("cache get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

// Set stores value under key for the default TTL.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return s.rdb.Set(ctx, key, data, s.ttl).Err()
}

// Del removes keys.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
