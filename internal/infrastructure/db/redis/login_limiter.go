package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const limiterKeyPrefix = "ratelimit:login:"

// LoginLimiter is a fixed-window counter shared by every API instance.
// It satisfies echo's middleware.RateLimiterStore. When Redis is unreachable
// attempts are let through and the failure is logged.
// Key format: ratelimit:login:<identifier>
type LoginLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	log    zerolog.Logger
}

func NewLoginLimiter(client redis.Cmdable, limit int, window time.Duration, log zerolog.Logger) *LoginLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{client: client, limit: int64(limit), window: window, log: log}
}

// Allow counts one attempt for identifier and reports whether it is within the limit.
func (l *LoginLimiter) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	key := limiterKeyPrefix + identifier
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("identifier", identifier).Msg("login limiter unavailable")
		return true, nil
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("login limiter: failed to set window")
		}
	}
	return n <= l.limit, nil
}
