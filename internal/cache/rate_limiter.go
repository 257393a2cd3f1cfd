package cache

import (
	"context"
	"fmt"
	"time"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiterStore is a fixed-window request limiter shared by every API instance through redis.
// It satisfies echo's middleware.RateLimiterStore.
type RateLimiterStore struct {
	cache   *Client
	limit   int64
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewRateLimiterStore allows limit requests per identifier in each window.
func NewRateLimiterStore(c *Client, limit int, window time.Duration) *RateLimiterStore {
	return &RateLimiterStore{
		cache:   c,
		limit:   int64(limit),
		window:  window,
		timeout: 200 * time.Millisecond,
		now:     time.Now,
	}
}

// Allow reports whether identifier may make another request in the current window.
// Requests are allowed when redis cannot be reached.
func (s *RateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	bucket := s.now().UnixNano() / int64(s.window)
	key := fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, identifier, bucket)
	count, ok := s.cache.IncrWindow(ctx, key, s.window)
	if !ok {
		return true, nil
	}
	return count <= s.limit, nil
}
