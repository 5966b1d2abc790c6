package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/domain/analysis"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	res := &analysis.Result{Company: "ACME", Period: "2024"}
	c.Set(ctx, "k", res, time.Minute)

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "ACME", got.Company)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "k", &analysis.Result{}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestMemory_ZeroTTLIgnored(t *testing.T) {
	c := NewMemory()
	c.Set(context.Background(), "k", &analysis.Result{}, 0)
	assert.Zero(t, c.Len())
}

func TestMemory_SweepOnSet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	c.Set(ctx, "old", &analysis.Result{}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	c.Set(ctx, "new", &analysis.Result{}, time.Minute)

	assert.Equal(t, 1, c.Len())
}
