package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kthrnbeh/ISweep-backend/internal/retry"
)

// NewClient creates a go-redis client from a URL (e.g., "redis://localhost:6379")
// with the metrics and circuit breaker hooks installed, and verifies the
// connection with a ping.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	// Hooks run in registration order, so metrics observe circuit breaker
	// rejections too.
	rdb.AddHook(&MetricsHook{})
	rdb.AddHook(NewCircuitBreakerHook())

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

const (
	connectMaxAttempts    = 5
	connectInitialBackoff = 500 * time.Millisecond
	connectWarmupBackoff  = 2 * time.Second
)

// NewClientWithRetry dials like NewClient but rides out transient failures,
// including the LOADING phase of a Redis that is restoring its dataset.
func NewClientWithRetry(ctx context.Context, redisURL string) (*goredis.Client, error) {
	p := retry.Policy{
		MaxAttempts:    connectMaxAttempts,
		InitialBackoff: connectInitialBackoff,
		WarmupBackoff:  connectWarmupBackoff,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Redis connection failed, retrying", "attempt", attempt, "backoff_seconds", backoff.Seconds(), "error", err)
		},
	}

	return retry.Do(ctx, p, classifyConnectError, func() (*goredis.Client, error) {
		return NewClient(ctx, redisURL)
	})
}

func classifyConnectError(err error) retry.Action {
	if goredis.HasErrorPrefix(err, "LOADING") {
		return retry.After
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return retry.Retry
	}

	// Server replies other than LOADING (NOAUTH, WRONGPASS) and URL parse
	// failures are configuration problems.
	return retry.Stop
}
