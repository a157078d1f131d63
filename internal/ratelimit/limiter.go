// Package ratelimit throttles API callers with Redis-backed counters.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Allower decides whether another request fits in the window.
type Allower interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (Decision, error)
}

// SlidingRedis is a sliding window limiter backed by Redis sorted sets.
type SlidingRedis struct {
	Client redis.Cmdable
	Prefix string
	Now    func() time.Time
}

// Allow records the request and reports whether the window still has room.
// Rejected requests count against the window too.
func (l SlidingRedis) Allow(ctx context.Context, key string, window time.Duration, max int) (Decision, error) {
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	if l.Client == nil || max <= 0 || window <= 0 {
		return Decision{Allowed: true, Limit: max, Remaining: max, ResetAt: now.Add(window)}, nil
	}

	redisKey := l.Prefix + key
	cutoff := now.Add(-window).UnixNano()

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("(%d", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	current := int(count.Val())
	remaining := max - current
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: current <= max, Limit: max, Remaining: remaining, ResetAt: now.Add(window)}, nil
}

// FixedWindow adapts a ulule/limiter store to Allower.
type FixedWindow struct {
	Store limiter.Store
}

// Allow increments the fixed window counter for key.
func (f FixedWindow) Allow(ctx context.Context, key string, window time.Duration, max int) (Decision, error) {
	if f.Store == nil || max <= 0 || window <= 0 {
		return Decision{Allowed: true, Limit: max, Remaining: max, ResetAt: time.Now().Add(window)}, nil
	}
	l := limiter.New(f.Store, limiter.Rate{Period: window, Limit: int64(max)})
	res, err := l.Get(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:   !res.Reached,
		Limit:     int(res.Limit),
		Remaining: int(res.Remaining),
		ResetAt:   time.Unix(res.Reset, 0),
	}, nil
}

// ParseBackend normalises the configured backend name.
func ParseBackend(raw string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(raw)); b {
	case "", "sliding":
		return "sliding", nil
	case "fixed":
		return "fixed", nil
	default:
		return "", fmt.Errorf("ratelimit: unknown backend %q", raw)
	}
}
