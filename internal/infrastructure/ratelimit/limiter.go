// Package ratelimit implements a Redis fixed-window request limiter.
// The limiter fails open: if Redis is unreachable, requests pass.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ledgerlens/pkg/logger"
)

// Config bounds request volume per key within a rolling window.
type Config struct {
	Limit  int
	Window time.Duration
}

// DefaultConfig allows 30 requests per minute per key.
func DefaultConfig() Config {
	return Config{Limit: 30, Window: time.Minute}
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	client *redis.Client
	cfg    Config
}

// NewLimiter creates a limiter. A nil client disables limiting.
func NewLimiter(client *redis.Client, cfg Config) *Limiter {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultConfig().Limit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &Limiter{client: client, cfg: cfg}
}

// Allow reports whether the key may proceed, and the seconds to wait when it
// may not. Counter errors allow the request.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, int) {
	if l == nil || l.client == nil {
		return true, 0
	}

	window := windowKey(key, time.Now(), l.cfg.Window)

	count, err := l.client.Incr(ctx, window).Result()
	if err != nil {
		logger.Warn(ctx, "rate limiter unavailable, allowing request", "key", key, "error", err)
		return true, 0
	}
	if count == 1 {
		// First hit in this window sets the expiry.
		if err := l.client.Expire(ctx, window, l.cfg.Window).Err(); err != nil {
			logger.Warn(ctx, "rate limiter expire failed", "key", key, "error", err)
		}
	}

	if int(count) > l.cfg.Limit {
		return false, retryAfter(time.Now(), l.cfg.Window)
	}
	return true, 0
}

// windowKey buckets time into fixed windows so all instances agree on the
// counter without coordination.
func windowKey(key string, now time.Time, window time.Duration) string {
	bucket := now.Unix() / int64(window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%d", key, bucket)
}

// retryAfter is the time until the current window rolls over.
func retryAfter(now time.Time, window time.Duration) int {
	sec := int64(window.Seconds())
	remaining := sec - now.Unix()%sec
	return int(remaining)
}
