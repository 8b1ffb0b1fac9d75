package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPaymentCounter(t *testing.T) {
	t.Parallel()
	c := NewPaymentCounter()
	c.Inc("paystack", "pending")
	c.Inc("paystack", "pending")
	c.Inc("stripe", "completed")

	require.Equal(t, 2.0, testutil.ToFloat64(c.vec.WithLabelValues("paystack", "pending")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.vec.WithLabelValues("stripe", "completed")))
	require.Equal(t, 2, testutil.CollectAndCount(c.Collector()))
}

func TestTopicCounter(t *testing.T) {
	t.Parallel()
	c := NewTopicCounter()
	c.Inc("truck_tracking")

	require.Equal(t, 1.0, testutil.ToFloat64(c.vec.WithLabelValues("truck_tracking")))
}

func TestCounters(t *testing.T) {
	t.Parallel()
	rl := NewRateLimitExceededTotal()
	rl.Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(rl))

	retries := NewPublishRetriesTotal()
	require.Equal(t, 0.0, testutil.ToFloat64(retries))
}

func TestHTTP_Observe(t *testing.T) {
	t.Parallel()
	m := NewHTTP()
	m.Observe("GET", "/api/trips/{id}", 200, 30*time.Millisecond)
	m.Observe("GET", "/api/trips/{id}", 200, 10*time.Millisecond)
	m.Observe("POST", "/api/trips", 400, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/trips/{id}", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/trips", "400")))
	require.Len(t, m.Collectors(), 2)
	require.Equal(t, 2, testutil.CollectAndCount(m.duration))
}
