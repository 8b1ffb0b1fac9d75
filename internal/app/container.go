package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"fleet-platform/internal/auth"
	"fleet-platform/internal/config"
	"fleet-platform/internal/gateway/flutterwave"
	"fleet-platform/internal/gateway/paystack"
	"fleet-platform/internal/gateway/prembly"
	"fleet-platform/internal/gateway/stripe"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/metrics"
	"fleet-platform/internal/ports/payments"
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

// operationTimeout bounds a single service call.
type operationTimeout time.Duration

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  dbConnectFunc
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:  connectDbWithRetry,
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithConfigLoader replaces config.Load.
func (b *ContainerBuilder) WithConfigLoader(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerRealtime(container); err != nil {
		return nil, fmt.Errorf("realtime: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		loadConfig,
		func() operationTimeout { return operationTimeout(5 * time.Second) },
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), defaultDBRetry, logger)
	}
	return provideAll(container,
		providerDB,
		repository.NewStore,
		repository.NewSchemaRepo,
	)
}

type gateways struct {
	dig.Out

	Paystack    *paystack.Client
	Flutterwave *flutterwave.Client
	Stripe      *stripe.Client
	Prembly     *prembly.Client
}

// newGateways builds the provider clients. A provider without a secret key stays nil and is
// left out of the payment registry.
func newGateways(cfg *config.Config) gateways {
	hc := &http.Client{Timeout: cfg.Realtime.ProviderCalls}
	var out gateways
	if cfg.Paystack.SecretKey != "" {
		out.Paystack = paystack.New(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, hc, cfg.Realtime.ProviderCalls)
	}
	if cfg.Flutterwave.SecretKey != "" {
		out.Flutterwave = flutterwave.New(cfg.Flutterwave.BaseURL, cfg.Flutterwave.SecretKey,
			cfg.Flutterwave.RedirectURL, hc, cfg.Realtime.ProviderCalls)
	}
	if cfg.Stripe.SecretKey != "" {
		out.Stripe = stripe.New(cfg.Stripe.SecretKey, cfg.Stripe.BaseURL, hc)
	}
	out.Prembly = prembly.New(cfg.Prembly.BaseURL, cfg.Prembly.APIKey, cfg.Prembly.AppID, hc, cfg.Realtime.ProviderCalls)
	return out
}

type paymentIn struct {
	dig.In

	Config      *config.Config
	Store       *repository.Store
	Paystack    *paystack.Client
	Flutterwave *flutterwave.Client
	Stripe      *stripe.Client
	Publisher   realtime.Publisher
	Counter     *metrics.PaymentCounter
	Logger      logx.Logger
	Timeout     operationTimeout
}

func newPaymentService(in paymentIn) (*payment.Service, error) {
	// nil clients must not reach the registry as typed-nil interfaces
	var adapters []payments.Adapter
	if in.Paystack != nil {
		adapters = append(adapters, in.Paystack)
	}
	if in.Flutterwave != nil {
		adapters = append(adapters, in.Flutterwave)
	}
	var starter payment.SubscriptionStarter
	if in.Stripe != nil {
		adapters = append(adapters, in.Stripe)
		starter = in.Stripe
	}
	registry, err := payment.NewRegistry(adapters...)
	if err != nil {
		return nil, err
	}
	secrets := payment.WebhookSecrets{
		Payments:      in.Config.Stripe.WebhookSecret,
		Subscriptions: in.Config.Stripe.SubscriptionWebhookSecret,
	}
	return payment.NewService(in.Store, registry, starter, in.Publisher, in.Counter, secrets,
		in.Logger, 4*time.Duration(in.Timeout)), nil
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		newGateways,
		newPaymentService,
		func(cfg *config.Config, store *repository.Store, pub realtime.Publisher, logger logx.Logger,
			timeout operationTimeout) *trip.Service {
			distance := trip.NewRandomDistance(uint64(time.Now().UnixNano()))
			return trip.NewService(store, distance, pub, logger, cfg.Trip.BaseRatePerKm, time.Duration(timeout))
		},
		func(store *repository.Store, pub realtime.Publisher, logger logx.Logger, timeout operationTimeout) *truck.Service {
			return truck.NewService(store, pub, logger, time.Duration(timeout))
		},
		func(store *repository.Store, pub realtime.Publisher, logger logx.Logger,
			timeout operationTimeout) *notification.Service {
			return notification.NewService(store, pub, logger, time.Duration(timeout))
		},
		func(store *repository.Store, client *prembly.Client, logger logx.Logger,
			timeout operationTimeout) *verification.Service {
			return verification.NewService(store, client, logger, 4*time.Duration(timeout))
		},
		func(store *repository.Store, logger logx.Logger, timeout operationTimeout) *dashboard.Service {
			return dashboard.NewService(store, logger, time.Duration(timeout))
		},
		func(schema *repository.SchemaRepo, logger logx.Logger) *setup.Service {
			return setup.NewService(schema, logger, 30*time.Second)
		},
		func(cfg *config.Config) *auth.Verifier {
			return auth.NewVerifier(cfg.Auth.JWTSecret)
		},
	)
}
