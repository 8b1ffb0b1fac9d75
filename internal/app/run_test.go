package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"fleet-platform/internal/config"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/realtime"
	testlog "fleet-platform/internal/testutil"
)

func hasMsg(entries []testlog.Entry, msg string) bool {
	for _, e := range entries {
		if e.Msg == msg {
			return true
		}
	}
	return false
}

func TestGracefulShutdown_DoesNotPanic(t *testing.T) {
	t.Parallel()

	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	require.NotPanics(t, func() {
		gracefulShutdown(srv, logx.Nop(), 100*time.Millisecond)
	})
}

func TestMustRun_ShutdownRequested(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	container := dig.New()
	require.NoError(t, container.Provide(func() logx.Logger {
		return rec.Logger()
	}))

	r := &Runner{
		runFn: func(_ *dig.Container) error {
			return context.Canceled
		},
		fatalf: func(string, ...any) { t.Fatal("fatalf must not be called") },
	}
	r.MustRun(container)
	require.True(t, hasMsg(rec.Entries(), "shutdown requested, exiting"))
}

func TestRunner_MustRun_StartupTimeout(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	container := dig.New()
	require.NoError(t, container.Provide(func() logx.Logger {
		return rec.Logger()
	}))

	r := &Runner{
		runFn: func(_ *dig.Container) error {
			return context.DeadlineExceeded
		},
		fatalf: func(string, ...any) { t.Fatal("fatalf must not be called") },
	}

	r.MustRun(container)
	require.True(t, hasMsg(rec.Entries(), "startup aborted: startup timeout exceeded"))
}

func TestRunner_MustRun_OtherErrorIsFatal(t *testing.T) {
	t.Parallel()

	var got string
	r := &Runner{
		runFn:  func(_ *dig.Container) error { return errors.New("missing type") },
		fatalf: func(format string, args ...any) { got = format },
	}

	r.MustRun(dig.New())
	require.Equal(t, "run error: %v", got)
}

func TestNewRunner_DefaultFields(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	require.NotNil(t, r)
	require.NotNil(t, r.runFn)
	require.NotNil(t, r.fatalf)
}

func TestRun_ServesUntilContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := testlog.New()
	closed := make(chan struct{})
	container := dig.New()
	require.NoError(t, provideAll(container,
		func() context.Context { return ctx },
		func() logx.Logger { return rec.Logger() },
		func() *pgxpool.Pool { return nil },
		func() *realtime.Hub { return realtime.NewHub(nil) },
		func() *broker {
			return &broker{kind: config.BrokerLocal, closers: []func() error{
				func() error { close(closed); return nil },
			}}
		},
		func() *http.Server {
			return &http.Server{
				Addr:    "127.0.0.1:0",
				Handler: http.NewServeMux(),
			}
		},
	))

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := run(container)
	require.ErrorIs(t, err, context.Canceled)

	select {
	case <-closed:
	default:
		t.Fatal("broker was not closed")
	}
	require.True(t, hasMsg(rec.Entries(), "shutting down fleet-service..."))
}
