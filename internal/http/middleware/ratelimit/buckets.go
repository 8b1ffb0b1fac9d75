package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Config controls Buckets.
type Config struct {
	Rate       float64       // tokens refilled per second
	Burst      int           // bucket capacity
	Idle       time.Duration // buckets untouched for longer are dropped, 0 keeps them
	MaxClients int           // 0 means unbounded
}

// Buckets is a token bucket limiter keyed by client.
type Buckets struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	clients   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	tokens  float64
	updated time.Time
}

// NewBuckets returns a limiter using cfg. now defaults to time.Now.
func NewBuckets(cfg Config, now func() time.Time) *Buckets {
	if now == nil {
		now = time.Now
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxClients < 0 {
		cfg.MaxClients = 0
	}
	return &Buckets{cfg: cfg, now: now, clients: make(map[string]*bucket)}
}

// Take consumes one token of key.
func (l *Buckets) Take(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now, false)
	b, ok := l.clients[key]
	if !ok {
		if l.cfg.MaxClients > 0 && len(l.clients) >= l.cfg.MaxClients {
			l.sweep(now, true)
			if len(l.clients) >= l.cfg.MaxClients {
				return Decision{RetryIn: l.refillIn(1)}
			}
		}
		b = &bucket{tokens: float64(l.cfg.Burst), updated: now}
		l.clients[key] = b
	}

	if dt := now.Sub(b.updated); dt > 0 {
		b.tokens = math.Min(float64(l.cfg.Burst), b.tokens+dt.Seconds()*l.cfg.Rate)
		b.updated = now
	}

	if b.tokens < 1 {
		return Decision{RetryIn: l.refillIn(1 - b.tokens)}
	}
	b.tokens--
	return Decision{Allowed: true, Remaining: int(b.tokens)}
}

// Len returns the number of tracked clients.
func (l *Buckets) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Buckets) refillIn(missing float64) time.Duration {
	return time.Duration(math.Ceil(missing / l.cfg.Rate * float64(time.Second)))
}

// sweep drops idle buckets at most once per half idle period unless forced.
// Callers hold l.mu.
func (l *Buckets) sweep(now time.Time, force bool) {
	if l.cfg.Idle <= 0 {
		return
	}
	if !force && !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < l.cfg.Idle/2 {
		return
	}
	l.lastSweep = now
	for k, b := range l.clients {
		if now.Sub(b.updated) > l.cfg.Idle {
			delete(l.clients, k)
		}
	}
}
