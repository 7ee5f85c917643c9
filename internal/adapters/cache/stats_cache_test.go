package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Total int64 `json:"total"`
}

func newTestCache(t *testing.T) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsCache(client, time.Minute), mr
}

func TestStatsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got snapshot
	hit, err := c.Get(ctx, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	stored, err := c.SetIfGeneration(ctx, 0, snapshot{Total: 7})
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, time.Minute, mr.TTL(StatsOverviewKey))

	hit, err = c.Get(ctx, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), got.Total)

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(StatsOverviewKey))
}

func TestStatsCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	stored, err := c.SetIfGeneration(ctx, 0, snapshot{Total: 1})
	require.NoError(t, err)
	require.True(t, stored)
	mr.FastForward(2 * time.Minute)

	var got snapshot
	hit, err := c.Get(ctx, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestStatsCacheDropsSnapshotComputedBeforeInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	// a write lands while the snapshot is being computed
	require.NoError(t, c.Invalidate(ctx))

	stored, err := c.SetIfGeneration(ctx, gen, snapshot{Total: 1})
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(StatsOverviewKey))

	gen, err = c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	stored, err = c.SetIfGeneration(ctx, gen, snapshot{Total: 2})
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists(StatsOverviewKey))
}

func TestNilStatsCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *StatsCache

	assert.False(t, c.Enabled())
	hit, err := c.Get(ctx, &snapshot{})
	assert.NoError(t, err)
	assert.False(t, hit)
	stored, err := c.SetIfGeneration(ctx, 0, snapshot{})
	assert.NoError(t, err)
	assert.False(t, stored)
	gen, err := c.Generation(ctx)
	assert.NoError(t, err)
	assert.Zero(t, gen)
	assert.NoError(t, c.Invalidate(ctx))
	assert.NoError(t, c.Ping(ctx))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = Connect(context.Background(), mr.Addr())
	assert.Error(t, err)
}
