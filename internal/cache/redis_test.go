package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestLikeCount_MissSetHit(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	_, ok, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetLikeCount(ctx, 42, 0))
	n, ok, err := c.GetLikeCount(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), n)

	assert.Equal(t, time.Hour, mr.TTL("likes:count:42"))
}

func TestLikeCount_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.SetLikeCount(ctx, 1, 7))

	mr.FastForward(2 * time.Hour)
	_, ok, err := c.GetLikeCount(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLikeCount_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.SetLikeCount(ctx, 1, 3))
	require.NoError(t, c.SetLikeCount(ctx, 2, 4))

	require.NoError(t, c.InvalidateLikeCounts(ctx, 1, 2, 3))
	require.NoError(t, c.InvalidateLikeCounts(ctx))
	for _, id := range []uint64{1, 2} {
		_, ok, err := c.GetLikeCount(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestLikeCount_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("likes:count:5", "nope"))
	_, ok, err := c.GetLikeCount(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("likes:count:5"))
}
