package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"fleet-platform/internal/logx"
	testlog "fleet-platform/internal/testutil"
)

func withStubNewPool(t *testing.T, stub func(context.Context, string) (*pgxpool.Pool, error)) {
	t.Helper()
	orig := newPool
	newPool = stub
	t.Cleanup(func() { newPool = orig })
}

func TestConnectDbWithRetry_SuccessFirstAttempt(t *testing.T) {
	wantPool := &pgxpool.Pool{}
	calls := 0
	withStubNewPool(t, func(_ context.Context, dsn string) (*pgxpool.Pool, error) {
		calls++
		require.Equal(t, "postgres://stub", dsn)
		return wantPool, nil
	})

	rec := testlog.New()
	pool, err := connectDbWithRetry(context.Background(), "postgres://stub",
		dbRetry{Attempts: 3, Delay: 10 * time.Millisecond}, rec.Logger())
	require.NoError(t, err)
	require.Same(t, wantPool, pool)
	require.Equal(t, 1, calls)

	entry, ok := rec.Find("db connected")
	require.True(t, ok)
	attempt, _ := entry.Field("attempt")
	require.Equal(t, 1, attempt)
}

func TestConnectDbWithRetry_RecoversAfterFailures(t *testing.T) {
	calls := 0
	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return &pgxpool.Pool{}, nil
	})

	rec := testlog.New()
	pool, err := connectDbWithRetry(context.Background(), "postgres://stub",
		dbRetry{Attempts: 5, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, rec.Logger())
	require.NoError(t, err)
	require.NotNil(t, pool)
	require.Equal(t, 3, calls)

	warnings := 0
	for _, e := range rec.Entries() {
		if e.Msg == "db connect failed" {
			warnings++
		}
	}
	require.Equal(t, 2, warnings)
}

func TestConnectDbWithRetry_ExhaustsRetries(t *testing.T) {
	sentinelErr := errors.New("db boom")
	calls := 0
	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		calls++
		return nil, sentinelErr
	})

	pool, err := connectDbWithRetry(context.Background(), "postgres://stub", dbRetry{Attempts: 3}, logx.Nop())
	require.Nil(t, pool)
	require.ErrorIs(t, err, sentinelErr)
	require.Contains(t, err.Error(), "after 3 attempts")
	require.Equal(t, 3, calls)
}

func TestConnectDbWithRetry_ZeroAttemptsTriesOnce(t *testing.T) {
	calls := 0
	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		calls++
		return nil, errors.New("down")
	})

	_, err := connectDbWithRetry(context.Background(), "postgres://stub", dbRetry{}, logx.Nop())
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestConnectDbWithRetry_ContextCanceledBetweenRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	withStubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		return nil, errors.New("db boom")
	})

	pool, err := connectDbWithRetry(ctx, "postgres://stub", dbRetry{Attempts: 3, Delay: 50 * time.Millisecond}, logx.Nop())
	require.Nil(t, pool)
	require.ErrorIs(t, err, context.Canceled)
}
