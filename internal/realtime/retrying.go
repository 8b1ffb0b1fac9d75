package realtime

import (
	"context"
	"errors"
	"time"

	"fleet-platform/internal/logx"
)

type counter interface {
	Inc()
}

// RetryConfig describes the behaviour of RetryingPublisher.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingPublisher retries failed publishes with exponential backoff.
type RetryingPublisher struct {
	next    Publisher
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(time.Duration)
}

// NewRetryingPublisher wraps next. It returns nil when next is nil.
func NewRetryingPublisher(next Publisher, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingPublisher {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingPublisher{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Publish publishes ev, retrying transient failures.
func (p *RetryingPublisher) Publish(ctx context.Context, ev ChangeEvent) error {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := p.next.Publish(ctx, ev)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("realtime publish retry",
			logx.String("topic", string(ev.Topic)),
			logx.String("event_id", ev.ID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, p.sleep, delay) {
			break
		}
	}
	return lastErr
}

// ErrPermanent marks publish failures that must not be retried.
var ErrPermanent = errors.New("permanent publish failure")

func isRetryable(err error) bool {
	return !errors.Is(err, ErrPermanent) && !errors.Is(err, ErrHubClosed)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	if sleep == nil {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
			return true
		}
	}
	sleep(d)
	return ctx.Err() == nil
}
