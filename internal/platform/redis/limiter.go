package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces limiter counters.
const DefaultKeyPrefix = "flashforge:ratelimit:"

// ErrInvalidLimit is returned for a non-positive limit or window.
var ErrInvalidLimit = errors.New("rate limit and window must be positive")

// Result describes the state of a caller's current window.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// FixedWindowLimiter counts requests per key in fixed windows. Each window
// has its own counter that expires with the window.
type FixedWindowLimiter struct {
	client goredis.Cmdable
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewFixedWindowLimiter allows limit requests per key in every window.
func NewFixedWindowLimiter(client goredis.Cmdable, limit int, window time.Duration) (*FixedWindowLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if limit <= 0 || window <= 0 {
		return nil, ErrInvalidLimit
	}
	return &FixedWindowLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: DefaultKeyPrefix,
		now:    time.Now,
	}, nil
}

// Allow records one request for key and reports whether it fits the window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Result, error) {
	windowStart := l.now().Truncate(l.window)
	counterKey := l.counterKey(key, windowStart)

	var incr *goredis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, counterKey)
		pipe.Expire(ctx, counterKey, l.window)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   windowStart.Add(l.window),
	}, nil
}

func (l *FixedWindowLimiter) counterKey(key string, windowStart time.Time) string {
	return l.prefix + key + ":" + strconv.FormatInt(windowStart.Unix(), 10)
}
