package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/muzz-interest/internal/config"
)

const DefaultLikeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return NewRedisCacheFromClient(redis.NewClient(opts), cfg.Swipe.LikeCountTTL)
}

// NewRedisCacheFromClient wraps an existing client. ttl <= 0 uses the
// one hour default.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultLikeCountTTL
	}
	return &RedisCache{Client: client, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLikeCount generates Redis key for a user's liked-me count
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

func (c *RedisCache) SetLikeCount(ctx context.Context, userID uint64, count int64) error {
	// Always refresh TTL when updating
	return c.Client.Set(ctx, c.KeyForLikeCount(userID), count, c.ttl).Err()
}

// GetLikeCount returns the cached count; ok is false on a miss.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (count int64, ok bool, err error) {
	key := c.KeyForLikeCount(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	count, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		// corrupt entry, drop it and treat as a miss
		_ = c.Client.Del(ctx, key).Err()
		return 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, c.ttl).Err()
	return count, true, nil
}

// InvalidateLikeCounts drops the cached counts of the given users.
func (c *RedisCache) InvalidateLikeCounts(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.KeyForLikeCount(id)
	}
	return c.Client.Del(ctx, keys...).Err()
}
