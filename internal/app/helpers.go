package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-platform/internal/logx"
	"fleet-platform/internal/repository"
)

var newPool = repository.NewPool

// dbRetry is the startup connection policy. The delay doubles after each failure up to MaxDelay.
type dbRetry struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

var defaultDBRetry = dbRetry{Attempts: 10, Delay: time.Second, MaxDelay: 8 * time.Second}

type dbConnectFunc func(ctx context.Context, dsn string, policy dbRetry, logger logx.Logger) (*pgxpool.Pool, error)

func connectDbWithRetry(ctx context.Context, dsn string, policy dbRetry, logger logx.Logger) (*pgxpool.Pool, error) {
	const attemptTimeout = 3 * time.Second
	if policy.Attempts <= 0 {
		policy.Attempts = 1
	}

	var lastErr error
	delay := policy.Delay
	for i := 1; i <= policy.Attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		pool, err := newPool(attemptCtx, dsn)
		cancel()
		if err == nil {
			logger.Info("db connected", logx.String("event", "db_connected"), logx.Int("attempt", i))
			return pool, nil
		}
		lastErr = err
		logger.Warn("db connect failed",
			logx.String("event", "db_connect_failed"),
			logx.Int("attempt", i),
			logx.Int("attempts", policy.Attempts),
			logx.Err(err),
		)
		if i == policy.Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", policy.Attempts, lastErr)
}
