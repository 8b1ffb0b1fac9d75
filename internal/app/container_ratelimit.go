package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"fleet-platform/internal/config"
	"fleet-platform/internal/http/middleware/ratelimit"
	"fleet-platform/internal/logx"
)

// newRateLimiter maps RATE_LIMIT_* settings onto a per-client token bucket.
func newRateLimiter(cfg *config.Config) ratelimit.Limiter {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return ratelimit.Unlimited{}
	}
	return ratelimit.NewBuckets(ratelimit.Config{
		Rate:       rl.Rate,
		Burst:      rl.Burst,
		Idle:       rl.TTL,
		MaxClients: rl.MaxBuckets,
	}, nil)
}

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Limiter ratelimit.Limiter
}

func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Limiter)
}
