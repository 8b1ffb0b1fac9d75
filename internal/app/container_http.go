package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"fleet-platform/internal/auth"
	"fleet-platform/internal/config"
	"fleet-platform/internal/http/debugserver"
	"fleet-platform/internal/http/handlers"
	"fleet-platform/internal/http/middleware"
	"fleet-platform/internal/http/middleware/ratelimit"
	"fleet-platform/internal/http/router"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/metrics"
	"fleet-platform/internal/realtime"
	"fleet-platform/internal/repository"
	"fleet-platform/internal/service/dashboard"
	"fleet-platform/internal/service/notification"
	"fleet-platform/internal/service/payment"
	"fleet-platform/internal/service/setup"
	"fleet-platform/internal/service/trip"
	"fleet-platform/internal/service/truck"
	"fleet-platform/internal/service/verification"
)

type routerIn struct {
	dig.In

	Config        *config.Config
	Logger        logx.Logger
	Registry      *prometheus.Registry
	Base          *handlers.Handlers
	Trips         *handlers.TripHandler
	Trucks        *handlers.TruckHandler
	Notifications *handlers.NotificationHandler
	Verification  *handlers.VerificationHandler
	Payments      *handlers.PaymentHandler
	Setup         *handlers.SetupHandler
	Dashboard     *handlers.DashboardHandler
	Realtime      *handlers.RealtimeHandler
	Session       *middleware.Session
	RateLimit     *ratelimit.Middleware
	HTTPMetrics   *metrics.HTTP
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Logger:        in.Logger,
		Base:          in.Base,
		Trips:         in.Trips,
		Trucks:        in.Trucks,
		Notifications: in.Notifications,
		Verification:  in.Verification,
		Payments:      in.Payments,
		Setup:         in.Setup,
		Dashboard:     in.Dashboard,
		Realtime:      in.Realtime,
		Session:       in.Session,
		RateLimit:     in.RateLimit,
		Metrics:       promhttp.HandlerFor(in.Registry, promhttp.HandlerOpts{}),
		HTTPMetrics:   in.HTTPMetrics,
		Timeout:       30 * time.Second,
	})
}

type serversOut struct {
	dig.Out

	Main  *http.Server
	Pprof *http.Server `name:"pprof_server"`
}

// newServers builds the API server and, when enabled, the debug server on its own address.
func newServers(cfg *config.Config, mux http.Handler, hub *realtime.Hub) serversOut {
	out := serversOut{
		Main: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
	if cfg.Pprof.Enabled {
		out.Pprof = &http.Server{
			Addr: cfg.Pprof.Addr,
			Handler: debugserver.Handler(debugserver.Config{
				User:     cfg.Pprof.User,
				Pass:     cfg.Pprof.Pass,
				Realtime: hub,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return out
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		func(l logx.Logger, pool *pgxpool.Pool) *handlers.Handlers { return handlers.New(l, pool) },
		func(l logx.Logger, s *trip.Service) *handlers.TripHandler { return handlers.NewTripHandler(l, s) },
		func(l logx.Logger, s *truck.Service) *handlers.TruckHandler { return handlers.NewTruckHandler(l, s) },
		func(l logx.Logger, s *notification.Service) *handlers.NotificationHandler {
			return handlers.NewNotificationHandler(l, s)
		},
		func(l logx.Logger, s *verification.Service) *handlers.VerificationHandler {
			return handlers.NewVerificationHandler(l, s)
		},
		func(l logx.Logger, s *payment.Service) *handlers.PaymentHandler {
			return handlers.NewPaymentHandler(l, s)
		},
		func(l logx.Logger, s *setup.Service) *handlers.SetupHandler { return handlers.NewSetupHandler(l, s) },
		func(l logx.Logger, s *dashboard.Service) *handlers.DashboardHandler {
			return handlers.NewDashboardHandler(l, s)
		},
		func(cfg *config.Config, l logx.Logger, hub *realtime.Hub, c realtime.Classifier) *handlers.RealtimeHandler {
			return handlers.NewRealtimeHandler(l, hub, c, cfg.Realtime.BufferSize, nil)
		},
		func(cfg *config.Config, v *auth.Verifier, store *repository.Store, l logx.Logger) *middleware.Session {
			return middleware.NewSession(v, store, cfg.Auth.CookieName, l)
		},
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newServers,
	)
}
