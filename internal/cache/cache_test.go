// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMemoryCacheSetGetExpire(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "home", []byte(`[]`), time.Minute)
	got, ok := c.Get(ctx, "home")
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), got)

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "home")
	assert.False(t, ok)

	assert.Equal(t, 1, c.deleteExpired())
	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Zero(t, stats.CurrentSize)
}

func TestMemoryCacheIgnoresNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	c.Set(ctx, "k", []byte("v"), 0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	c.Set(ctx, "a", []byte("1"), time.Hour)
	c.Set(ctx, "b", []byte("2"), time.Hour)
	c.Clear(ctx)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Clears)
}

func TestMemoryCacheCloseStopsJanitor(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := NewMemoryCache(time.Millisecond)
	c.Set(context.Background(), "a", []byte("1"), time.Nanosecond)
	assert.Eventually(t, func() bool { return c.Stats().CurrentSize == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestNoOpCache(t *testing.T) {
	var c Cache = NoOpCache{}
	c.Set(context.Background(), "k", []byte("v"), time.Hour)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, c.Stats())
}
