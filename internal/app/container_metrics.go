package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	"fleet-platform/internal/metrics"
)

type metricsOut struct {
	dig.Out

	Registry       *prometheus.Registry
	RateLimit      prometheus.Counter `name:"rate_limit_exceeded_total"`
	PublishRetries prometheus.Counter `name:"realtime_publish_retries_total"`
	Payments       *metrics.PaymentCounter
	Topics         *metrics.TopicCounter
	HTTP           *metrics.HTTP
}

// newMetrics creates the service collectors and registers them on a private registry.
func newMetrics() (metricsOut, error) {
	out := metricsOut{
		Registry:       prometheus.NewRegistry(),
		RateLimit:      metrics.NewRateLimitExceededTotal(),
		PublishRetries: metrics.NewPublishRetriesTotal(),
		Payments:       metrics.NewPaymentCounter(),
		Topics:         metrics.NewTopicCounter(),
		HTTP:           metrics.NewHTTP(),
	}
	all := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		out.RateLimit,
		out.PublishRetries,
		out.Payments.Collector(),
		out.Topics.Collector(),
	}
	all = append(all, out.HTTP.Collectors()...)
	for _, c := range all {
		if err := out.Registry.Register(c); err != nil {
			return metricsOut{}, fmt.Errorf("register collector: %w", err)
		}
	}
	return out, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, newMetrics)
}
