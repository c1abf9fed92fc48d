package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tripdocs/internal/config"
)

const blacklistKeyPrefix = "blacklist:"

// redisBlacklist is a Redis-backed TokenBlacklist. Redis TTLs handle expiry,
// so entries vanish on their own.
type redisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist connects to Redis and verifies connectivity.
func NewRedisBlacklist(cfg config.RedisConfig) (TokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBlacklist{client: client}, nil
}

func (b *redisBlacklist) Contains(ctx context.Context, key string) (bool, error) {
	err := b.client.Get(ctx, blacklistKeyPrefix+key).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *redisBlacklist) Add(ctx context.Context, key string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistKeyPrefix+key, "1", ttl).Err()
}
