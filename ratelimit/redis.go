package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLimiter counts windows in Redis so every instance of the
// service draws from the same quota. Each identifier maps to a key
// that is incremented per request and expires with the window.
//
// Unlike the memory limiter it still increments once the cap is
// reached; Allowed and Remaining are computed the same way, so the
// observable contract matches.
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisLimiter(client *redis.Client, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{client: client, logger: logger}
}

func (l *RedisLimiter) Check(ctx context.Context, identifier string, maxRequests int, window time.Duration) Result {
	key := "ratelimit:" + identifier

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		// Fail open: an unreachable counter must not take the forum down.
		l.logger.Warn("rate limit counter unavailable, allowing request",
			zap.String("identifier", identifier), zap.Error(err))
		return Result{Allowed: true, Remaining: maxRequests - 1, ResetIn: window}
	}

	if count == 1 {
		if err := l.client.PExpire(ctx, key, window).Err(); err != nil {
			l.logger.Warn("rate limit window expiry failed",
				zap.String("identifier", identifier), zap.Error(err))
		}
	}

	resetIn := window
	if ttl, err := l.client.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
		resetIn = ttl
	}

	remaining := maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   int(count) <= maxRequests,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}
