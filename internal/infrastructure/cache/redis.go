package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"ledgerlens/internal/domain/analysis"
	"ledgerlens/pkg/logger"
)

// Redis caches analysis results in Redis as JSON. Errors degrade to cache
// misses; the analysis pipeline stays correct without Redis.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed cache.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get returns a cached result, treating any Redis or decode failure as a miss.
func (r *Redis) Get(ctx context.Context, key string) (*analysis.Result, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx, "cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var result analysis.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		logger.Warn(ctx, "cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &result, true
}

// Set stores a result with a TTL, logging failures and moving on.
func (r *Redis) Set(ctx context.Context, key string, result *analysis.Result, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		logger.Warn(ctx, "cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Warn(ctx, "cache write failed", "key", key, "error", err)
	}
}
