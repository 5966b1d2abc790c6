package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestWindowKey_StableWithinWindow(t *testing.T) {
	base := time.Unix(1_700_000_040, 0)

	k1 := windowKey("user:1", base, time.Minute)
	k2 := windowKey("user:1", base.Add(10*time.Second), time.Minute)
	k3 := windowKey("user:1", base.Add(time.Minute), time.Minute)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestRetryAfter_BoundedByWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	wait := retryAfter(now, time.Minute)
	assert.Greater(t, wait, 0)
	assert.LessOrEqual(t, wait, 60)
}

func TestAllow_NilClientFailsOpen(t *testing.T) {
	var l *Limiter
	ok, wait := l.Allow(context.Background(), "anyone")
	assert.True(t, ok)
	assert.Zero(t, wait)

	l = NewLimiter(nil, DefaultConfig())
	ok, _ = l.Allow(context.Background(), "anyone")
	assert.True(t, ok)
}

func TestAllow_UnreachableRedisFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewLimiter(client, Config{Limit: 1, Window: time.Minute})
	ok, _ := l.Allow(context.Background(), "user:1")
	assert.True(t, ok, "limiter must fail open when redis is down")
}
