package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewPublishRetriesTotal returns a Prometheus counter for the number of realtime publish retries
func NewPublishRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realtime_publish_retries_total",
		Help: "Total number of retry attempts performed by realtime publishers",
	})
}

// PaymentCounter counts payment state changes by provider and status.
type PaymentCounter struct {
	vec *prometheus.CounterVec
}

// NewPaymentCounter returns an unregistered PaymentCounter.
func NewPaymentCounter() *PaymentCounter {
	return &PaymentCounter{vec: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Total number of payment state changes by provider and status",
	}, []string{"provider", "status"})}
}

// Inc increments the counter of provider and status.
func (c *PaymentCounter) Inc(provider, status string) {
	c.vec.WithLabelValues(provider, status).Inc()
}

// Collector returns the underlying collector for registration.
func (c *PaymentCounter) Collector() prometheus.Collector { return c.vec }

// TopicCounter counts realtime events dispatched per topic.
type TopicCounter struct {
	vec *prometheus.CounterVec
}

// NewTopicCounter returns an unregistered TopicCounter.
func NewTopicCounter() *TopicCounter {
	return &TopicCounter{vec: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_events_total",
		Help: "Total number of realtime events dispatched by topic",
	}, []string{"topic"})}
}

// Inc increments the counter of topic.
func (c *TopicCounter) Inc(topic string) {
	c.vec.WithLabelValues(topic).Inc()
}

// Collector returns the underlying collector for registration.
func (c *TopicCounter) Collector() prometheus.Collector { return c.vec }

// HTTP holds the request counter and latency histogram of the API server.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP returns unregistered HTTP collectors labelled by method, route pattern and status.
func NewHTTP() *HTTP {
	labels := []string{"method", "path", "status"}
	return &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, labels),
	}
}

// Observe records one finished request.
func (m *HTTP) Observe(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.requests.WithLabelValues(method, path, code).Inc()
	m.duration.WithLabelValues(method, path, code).Observe(d.Seconds())
}

// Collectors returns the collectors for registration.
func (m *HTTP) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.duration}
}
