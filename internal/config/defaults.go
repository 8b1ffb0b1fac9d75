package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "postgres",
	Pass: "postgres",
	Name: "fleet",
}

var defaultAuth = Auth{
	CookieName: "sb-access-token",
}

var defaultPaystack = Paystack{
	BaseURL: "https://api.paystack.co",
}

var defaultFlutterwave = Flutterwave{
	BaseURL:     "https://api.flutterwave.com/v3",
	RedirectURL: "http://localhost:3000/payments/callback",
}

var defaultPrembly = Prembly{
	BaseURL: "https://api.prembly.com/identitypass/verification",
}

var defaultRealtime = Realtime{
	Broker:        BrokerLocal,
	KafkaGroupID:  "fleet-realtime",
	AMQPExchange:  "fleet.realtime",
	PublishTries:  3,
	PublishDelay:  100 * time.Millisecond,
	BufferSize:    100,
	ProviderCalls: 15 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       10,
	Burst:      20,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultTrip = Trip{
	BaseRatePerKm: 150,
}

var defaultPayment = Payment{
	HighAmountThreshold: 1_000_000,
}

var defaultPprof = PprofConfig{
	Addr: "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultRealtime returns the default realtime settings.
func DefaultRealtime() Realtime { return defaultRealtime }

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }

// DefaultTrip returns the default trip pricing settings.
func DefaultTrip() Trip { return defaultTrip }

// DefaultPayment returns the default payment settings.
func DefaultPayment() Payment { return defaultPayment }
