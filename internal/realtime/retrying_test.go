package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	testlog "fleet-platform/internal/testutil"
)

type publisherFunc func(context.Context, ChangeEvent) error

func (f publisherFunc) Publish(ctx context.Context, ev ChangeEvent) error { return f(ctx, ev) }

type counterStub struct{ n int64 }

func (c *counterStub) Inc()         { atomic.AddInt64(&c.n, 1) }
func (c *counterStub) Count() int64 { return atomic.LoadInt64(&c.n) }

func TestRetryingPublisher_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	var calls int32
	next := publisherFunc(func(context.Context, ChangeEvent) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("broker unavailable")
		}
		return nil
	})
	ctr := &counterStub{}
	p := NewRetryingPublisher(next, rec.Logger(), ctr, RetryConfig{MaxAttempts: 5})

	if err := p.Publish(context.Background(), ChangeEvent{ID: "1", Topic: TopicTripUpdates}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if ctr.Count() != 2 {
		t.Fatalf("expected 2 retries, got %d", ctr.Count())
	}
	if _, ok := rec.Find("realtime publish retry"); !ok {
		t.Fatal("expected retry to be logged")
	}
}

func TestRetryingPublisher_NoRetryOnPermanent(t *testing.T) {
	t.Parallel()

	var calls int32
	next := publisherFunc(func(context.Context, ChangeEvent) error {
		atomic.AddInt32(&calls, 1)
		return fmt.Errorf("encode: %w", ErrPermanent)
	})
	ctr := &counterStub{}
	p := NewRetryingPublisher(next, testlog.New().Logger(), ctr, RetryConfig{MaxAttempts: 5})

	if err := p.Publish(context.Background(), ChangeEvent{}); !errors.Is(err, ErrPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 || ctr.Count() != 0 {
		t.Fatalf("expected 1 call and 0 retries, got %d/%d", calls, ctr.Count())
	}
}

func TestRetryingPublisher_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls int32
	boom := errors.New("boom")
	next := publisherFunc(func(context.Context, ChangeEvent) error {
		atomic.AddInt32(&calls, 1)
		return boom
	})
	p := NewRetryingPublisher(next, testlog.New().Logger(), nil, RetryConfig{MaxAttempts: 3})
	var slept []time.Duration
	p.sleep = func(d time.Duration) { slept = append(slept, d) }
	p.cfg.BaseDelay = 10 * time.Millisecond
	p.cfg.MaxDelay = 15 * time.Millisecond

	if err := p.Publish(context.Background(), ChangeEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(slept) != 2 || slept[0] != 10*time.Millisecond || slept[1] != 15*time.Millisecond {
		t.Fatalf("unexpected backoff: %v", slept)
	}
}

func TestRetryingPublisher_StopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	next := publisherFunc(func(context.Context, ChangeEvent) error {
		atomic.AddInt32(&calls, 1)
		cancel()
		return errors.New("boom")
	})
	p := NewRetryingPublisher(next, testlog.New().Logger(), nil, RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Second})

	if err := p.Publish(ctx, ChangeEvent{}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestNewRetryingPublisher_NilNext(t *testing.T) {
	t.Parallel()

	if NewRetryingPublisher(nil, nil, nil, RetryConfig{}) != nil {
		t.Fatal("expected nil publisher")
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	if got := backoff(100*time.Millisecond, time.Second, 1); got != 100*time.Millisecond {
		t.Fatalf("attempt 1: %v", got)
	}
	if got := backoff(100*time.Millisecond, time.Second, 3); got != 400*time.Millisecond {
		t.Fatalf("attempt 3: %v", got)
	}
	if got := backoff(100*time.Millisecond, time.Second, 10); got != time.Second {
		t.Fatalf("attempt 10: %v", got)
	}
}
