package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Broker kinds for realtime change events.
const (
	BrokerLocal    = "local"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

// Config stores service settings.
type Config struct {
	Port        int
	DB          DB
	Auth        Auth
	Paystack    Paystack
	Flutterwave Flutterwave
	Stripe      Stripe
	Prembly     Prembly
	Realtime    Realtime
	RateLimit   RateLimit
	Trip        Trip
	Payment     Payment
	Pprof       PprofConfig
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Auth stores session token settings.
type Auth struct {
	JWTSecret  string
	CookieName string
}

// Paystack stores Paystack API settings.
type Paystack struct {
	SecretKey string
	BaseURL   string
}

// Flutterwave stores Flutterwave API settings.
type Flutterwave struct {
	SecretKey   string
	BaseURL     string
	RedirectURL string
}

// Stripe stores Stripe API and webhook settings.
type Stripe struct {
	SecretKey                 string
	WebhookSecret             string
	SubscriptionWebhookSecret string
	// BaseURL overrides the API endpoint (used against stripe-mock).
	BaseURL string
}

// Prembly stores identity verification API settings.
type Prembly struct {
	APIKey  string
	AppID   string
	BaseURL string
}

// Realtime stores change event broker settings.
type Realtime struct {
	Broker        string
	KafkaBrokers  []string
	KafkaGroupID  string
	AMQPURL       string
	AMQPExchange  string
	PublishTries  int
	PublishDelay  time.Duration
	BufferSize    int
	ProviderCalls time.Duration
}

// RateLimit stores HTTP rate limit settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Trip stores trip pricing settings.
type Trip struct {
	BaseRatePerKm float64
}

// Payment stores payment settings.
type Payment struct {
	HighAmountThreshold float64
}

// PprofConfig stores the debug profiling server settings.
type PprofConfig struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.Realtime.Broker, "realtime-broker", cfg.Realtime.Broker, "realtime broker: local, kafka or rabbitmq")
	fs.BoolVar(&cfg.RateLimit.Enabled, "rate-limit", cfg.RateLimit.Enabled, "enable per-client rate limiting")
	fs.BoolVar(&cfg.Pprof.Enabled, "pprof", cfg.Pprof.Enabled, "serve pprof on the debug address")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv reads .env and the environment without touching command line flags.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:        defaultPort,
		DB:          defaultDB,
		Auth:        defaultAuth,
		Paystack:    defaultPaystack,
		Flutterwave: defaultFlutterwave,
		Prembly:     defaultPrembly,
		Realtime:    defaultRealtime,
		RateLimit:   defaultRateLimit,
		Trip:        defaultTrip,
		Payment:     defaultPayment,
		Pprof:       defaultPprof,
	}

	if err := fromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}

	cfg.DB.Host = envString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envString("POSTGRES_PORT", cfg.DB.Port)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q", cfg.DB.Port)
	}
	cfg.DB.User = envString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envString("POSTGRES_DB", cfg.DB.Name)

	cfg.Auth.JWTSecret = envString("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.CookieName = envString("AUTH_COOKIE_NAME", cfg.Auth.CookieName)

	cfg.Paystack.SecretKey = envString("PAYSTACK_SECRET_KEY", cfg.Paystack.SecretKey)
	cfg.Paystack.BaseURL = envString("PAYSTACK_BASE_URL", cfg.Paystack.BaseURL)

	cfg.Flutterwave.SecretKey = envString("FLUTTERWAVE_SECRET_KEY", cfg.Flutterwave.SecretKey)
	cfg.Flutterwave.BaseURL = envString("FLUTTERWAVE_BASE_URL", cfg.Flutterwave.BaseURL)
	cfg.Flutterwave.RedirectURL = envString("FLUTTERWAVE_REDIRECT_URL", cfg.Flutterwave.RedirectURL)

	cfg.Stripe.SecretKey = envString("STRIPE_SECRET_KEY", cfg.Stripe.SecretKey)
	cfg.Stripe.WebhookSecret = envString("STRIPE_WEBHOOK_SECRET", cfg.Stripe.WebhookSecret)
	cfg.Stripe.SubscriptionWebhookSecret = envString("STRIPE_SUBSCRIPTION_WEBHOOK_SECRET", cfg.Stripe.SubscriptionWebhookSecret)
	cfg.Stripe.BaseURL = envString("STRIPE_BASE_URL", cfg.Stripe.BaseURL)

	cfg.Prembly.APIKey = envString("PREMBLY_API_KEY", cfg.Prembly.APIKey)
	cfg.Prembly.AppID = envString("PREMBLY_APP_ID", cfg.Prembly.AppID)
	cfg.Prembly.BaseURL = envString("PREMBLY_BASE_URL", cfg.Prembly.BaseURL)

	cfg.Realtime.Broker = strings.ToLower(envString("REALTIME_BROKER", cfg.Realtime.Broker))
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Realtime.KafkaBrokers = splitList(v)
	}
	cfg.Realtime.KafkaGroupID = envString("KAFKA_GROUP_ID", cfg.Realtime.KafkaGroupID)
	cfg.Realtime.AMQPURL = envString("RABBITMQ_URL", cfg.Realtime.AMQPURL)
	cfg.Realtime.AMQPExchange = envString("RABBITMQ_EXCHANGE", cfg.Realtime.AMQPExchange)
	if cfg.Realtime.PublishTries, err = envInt("REALTIME_PUBLISH_TRIES", cfg.Realtime.PublishTries); err != nil {
		return err
	}
	if cfg.Realtime.PublishDelay, err = envDuration("REALTIME_PUBLISH_DELAY", cfg.Realtime.PublishDelay); err != nil {
		return err
	}
	if cfg.Realtime.ProviderCalls, err = envDuration("PROVIDER_HTTP_TIMEOUT", cfg.Realtime.ProviderCalls); err != nil {
		return err
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED %q", v)
		}
		cfg.RateLimit.Enabled = b
	}
	if cfg.RateLimit.Burst, err = envInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst); err != nil {
		return err
	}
	if cfg.RateLimit.Rate, err = envFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate); err != nil {
		return err
	}
	if cfg.RateLimit.TTL, err = envDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL); err != nil {
		return err
	}

	if v := os.Getenv("PPROF_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PPROF_ENABLED %q", v)
		}
		cfg.Pprof.Enabled = b
	}
	cfg.Pprof.Addr = envString("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = envString("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = envString("PPROF_PASS", cfg.Pprof.Pass)

	if cfg.Trip.BaseRatePerKm, err = envFloat("TRIP_BASE_RATE_PER_KM", cfg.Trip.BaseRatePerKm); err != nil {
		return err
	}
	if cfg.Payment.HighAmountThreshold, err = envFloat("PAYMENT_HIGH_AMOUNT_THRESHOLD", cfg.Payment.HighAmountThreshold); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.Realtime.Broker {
	case BrokerLocal:
	case BrokerKafka:
		if len(c.Realtime.KafkaBrokers) == 0 {
			return fmt.Errorf("realtime broker kafka requires KAFKA_BROKERS")
		}
	case BrokerRabbitMQ:
		if c.Realtime.AMQPURL == "" {
			return fmt.Errorf("realtime broker rabbitmq requires RABBITMQ_URL")
		}
	default:
		return fmt.Errorf("unknown realtime broker %q", c.Realtime.Broker)
	}
	if c.Trip.BaseRatePerKm <= 0 {
		return fmt.Errorf("invalid trip base rate: %v", c.Trip.BaseRatePerKm)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
