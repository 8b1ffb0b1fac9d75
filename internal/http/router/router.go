package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fleet-platform/internal/http/handlers"
	mw "fleet-platform/internal/http/middleware"
	"fleet-platform/internal/http/middleware/ratelimit"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/metrics"
)

// Deps are the handlers and middleware the router mounts. Metrics may be nil.
type Deps struct {
	Logger        logx.Logger
	Base          *handlers.Handlers
	Trips         *handlers.TripHandler
	Trucks        *handlers.TruckHandler
	Notifications *handlers.NotificationHandler
	Verification  *handlers.VerificationHandler
	Payments      *handlers.PaymentHandler
	Setup         *handlers.SetupHandler
	Dashboard     *handlers.DashboardHandler
	Realtime      *handlers.RealtimeHandler
	Session       *mw.Session
	RateLimit     *ratelimit.Middleware
	Metrics       http.Handler
	HTTPMetrics   *metrics.HTTP
	Timeout       time.Duration
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.Observability(d.Logger, d.HTTPMetrics))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)

	r.Route("/api", func(api chi.Router) {
		// the websocket outlives any request timeout
		api.Group(func(ws chi.Router) {
			ws.Use(d.Session.Identify, mw.RequireActor)
			ws.Get("/realtime/ws", d.Realtime.Serve)
		})

		api.Group(func(g chi.Router) {
			g.Use(middleware.Timeout(d.Timeout))

			g.Group(func(pub chi.Router) {
				pub.Use(d.RateLimit.Handler())
				pub.Post("/webhooks/stripe", d.Payments.StripeWebhook)
				pub.Post("/webhooks/stripe-subscription", d.Payments.StripeSubscriptionWebhook)
			})

			g.Group(func(boot chi.Router) {
				boot.Use(d.Session.IdentifyToken, d.RateLimit.Handler())
				boot.Get("/setup", d.Setup.Status)
				boot.With(mw.RequireActor).Post("/setup", d.Setup.Apply)
			})

			g.Group(func(s chi.Router) {
				s.Use(d.Session.Identify, mw.RequireActor, d.RateLimit.Handler())

				s.Get("/trips", d.Trips.List)
				s.Post("/trips", d.Trips.Create)
				s.Put("/trips", d.Trips.Update)
				s.Get("/trips/{id}", d.Trips.Get)

				s.Get("/trucks", d.Trucks.List)
				s.Get("/trucks/location", d.Trucks.Locations)
				s.Post("/trucks/location", d.Trucks.RecordLocation)
				s.Put("/trucks/location", d.Trucks.UpdateStatus)

				s.Get("/notifications", d.Notifications.List)
				s.Post("/notifications/send", d.Notifications.Send)
				s.Post("/notifications/{id}/read", d.Notifications.MarkRead)

				s.Get("/verification", d.Verification.History)
				s.Post("/verification/prembly", d.Verification.Verify)

				s.Get("/payments", d.Payments.List)
				s.Post("/payments", d.Payments.Create)
				s.Get("/payments/verify", d.Payments.Verify)
				s.Post("/subscriptions", d.Payments.Subscribe)

				s.Get("/dashboard", d.Dashboard.Get)
			})
		})
	})

	return r
}
