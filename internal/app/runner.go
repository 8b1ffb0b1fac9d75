package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"fleet-platform/internal/logx"
	"fleet-platform/internal/realtime"
)

// Runner runs the HTTP servers and the realtime relay.
type Runner struct {
	runFn  func(*dig.Container) error
	fatalf func(string, ...any)
}

// NewRunner returns a Runner serving until the container context is done.
func NewRunner() *Runner {
	return &Runner{runFn: run, fatalf: log.Fatalf}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		r.fatalf("run error: %v", err)
	}
}

type runIn struct {
	dig.In

	Ctx    context.Context
	Server *http.Server
	Pprof  *http.Server `name:"pprof_server" optional:"true"`
	Pool   *pgxpool.Pool
	Hub    *realtime.Hub
	Broker *broker
	Logger logx.Logger
}

func run(container *dig.Container) error {
	return container.Invoke(serve)
}

func serve(in runIn) error {
	relayDone := startRelay(in.Ctx, in.Broker, in.Logger)
	startServer(in.Server, "api", in.Logger)
	if in.Pprof != nil {
		startServer(in.Pprof, "pprof", in.Logger)
	}

	waitForShutdown(in.Ctx, in.Logger)
	gracefulShutdown(in.Server, in.Logger, 15*time.Second)
	if in.Pprof != nil {
		gracefulShutdown(in.Pprof, in.Logger, 2*time.Second)
	}
	<-relayDone
	closeResources(in.Pool, in.Hub, in.Broker, in.Server, in.Logger)
	return in.Ctx.Err()
}

// startRelay feeds events of a remote broker into the hub. The returned channel closes when the
// relay stops.
func startRelay(ctx context.Context, b *broker, logger logx.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("realtime relay stopped", logx.String("event", "relay_stopped"), logx.Err(err))
		}
	}()
	return done
}

func startServer(server *http.Server, name string, logger logx.Logger) {
	go func() {
		logger.Info("fleet-service listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()
}

func waitForShutdown(ctx context.Context, logger logx.Logger) {
	<-ctx.Done()
	logger.Info("shutting down fleet-service...")
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, hub *realtime.Hub, b *broker, server *http.Server, logger logx.Logger) {
	if err := server.Close(); err != nil {
		logger.Warn("server close error", logx.Err(err))
	}
	b.Close(logger)
	if hub != nil {
		hub.Close()
	}
	if pool != nil {
		pool.Close()
	}
}
