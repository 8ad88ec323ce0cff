package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Store is the key-value backend for continuation tokens and result-count
// estimates. A miss is a normal, representable outcome, not an error.
//
// Backend failures never propagate: Get degrades to a miss and Set to a
// no-op, because the store is an optimization, not a correctness requirement
// for a direct fetch. Degradations are logged and counted.
type Store interface {
	// Get retrieves the value stored under key. The second return value is
	// false when the key is absent, expired, or the backend is unreachable.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores value under key, overwriting any existing value and
	// resetting its TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration)

	// Ping verifies backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// RedisStore is the production Store backed by Redis. The underlying client
// pools connections and reconnects on demand, so a single shared instance
// serves all concurrent requests.
type RedisStore struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed token store.
func NewRedisStore(redisClient *redis.Client, logger zerolog.Logger) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:  redisClient,
		logger: logger,
	}
}

// Get retrieves a value by key. Backend errors are absorbed and reported as
// a miss so the caller falls back to direct-fetch behavior.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
			return "", false
		}
		CacheDegraded.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Store unreachable, treating as miss")
		return "", false
	}

	CacheHits.WithLabelValues("redis").Inc()
	return value, true
}

// Set stores a value with a TTL. A failed write must never fail the overall
// request, so errors are absorbed after logging.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		CacheDegraded.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Store unreachable, dropping write")
		return
	}
	s.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached value")
}

// Ping checks Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}
