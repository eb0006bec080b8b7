package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares one fixed window per token across replicas, using a
// Redis counter with the window length as its TTL.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	period time.Duration
}

// NewRedis creates a Redis-backed limiter.
func NewRedis(client *redis.Client, max int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		max:    int64(max),
		period: period,
	}
}

// Allow admits the request or returns ErrLimited.
func (l *RedisLimiter) Allow(ctx context.Context, token string) error {
	key := fmt.Sprintf("ratelimit:%s", token)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}
	if count == 1 {
		// First hit opens the window.
		if err := l.client.Expire(ctx, key, l.period).Err(); err != nil {
			return fmt.Errorf("rate limit check failed: %w", err)
		}
	}

	if count > l.max {
		return ErrLimited
	}
	return nil
}
