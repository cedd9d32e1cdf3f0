// Package ratelimit implements a fixed-window per-key request limiter on
// Redis. The limiter fails open: when Redis is unreachable, requests pass.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger Logger
}

// Window reports the configured window length, for retry-after hints.
func (l *Limiter) Window() time.Duration {
	return l.window
}

func New(client *redis.Client, limit int, window time.Duration, logger Logger) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Allow increments the caller's counter for the current window and reports
// whether the request is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("rate limiter unavailable, allowing request", map[string]interface{}{
			"error": err.Error(),
		})
		return true
	}

	return count.Val() <= int64(l.limit)
}
