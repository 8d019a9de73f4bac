package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a sliding-window limiter on Redis sorted sets.
type RateLimiter struct {
	client *Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window.
func NewRateLimiter(client *Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow reports whether one more request fits under the key's limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN reports whether n more requests fit under the key's limit and
// records them when they do.
func (l *RateLimiter) AllowN(ctx context.Context, key string, n int) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-l.window)
	redisKey := l.redisKey(key)

	pipe := l.client.Redis().Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	current := int(countCmd.Val())
	if current+n > l.limit {
		return false, nil
	}

	members := make([]redis.Z, n)
	for i := range members {
		members[i] = redis.Z{
			Score:  float64(now.UnixNano()),
			Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
		}
	}

	pipe = l.client.Redis().Pipeline()
	pipe.ZAdd(ctx, redisKey, members...)
	pipe.Expire(ctx, redisKey, l.window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to record request: %w", err)
	}
	return true, nil
}

// Remaining returns how many requests are left in the current window.
func (l *RateLimiter) Remaining(ctx context.Context, key string) (int, error) {
	windowStart := time.Now().Add(-l.window)
	redisKey := l.redisKey(key)

	pipe := l.client.Redis().Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}

	remaining := l.limit - int(countCmd.Val())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reset clears the window for a key.
func (l *RateLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.redisKey(key))
}

func (l *RateLimiter) redisKey(key string) string {
	return fmt.Sprintf("ratelimit:%s", key)
}

// UserKey builds a per-user rate limit key.
func UserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// EndpointKey builds a per-user per-endpoint rate limit key.
func EndpointKey(userID, endpoint string) string {
	return fmt.Sprintf("user:%s:%s", userID, endpoint)
}

// IPKey builds a per-client-IP rate limit key for unauthenticated routes.
func IPKey(ip string) string {
	return fmt.Sprintf("ip:%s", ip)
}
