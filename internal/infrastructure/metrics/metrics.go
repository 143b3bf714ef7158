// Package metrics exposes Prometheus collectors for the sync layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SyncMetrics counts sync fan-out outcomes and inbound webhook events.
type SyncMetrics struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	webhooks *prometheus.CounterVec
}

// New creates a SyncMetrics backed by its own registry, with the standard Go
// and process collectors attached.
func New() *SyncMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &SyncMetrics{
		registry: registry,
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_sync_attempts_total",
			Help: "Sync attempts by integration, entity type and outcome.",
		}, []string{"integration", "entity", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crm_sync_duration_seconds",
			Help:    "Duration of individual integration sync calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"integration", "entity"}),
		webhooks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_webhook_events_total",
			Help: "Inbound webhook events by integration and event type.",
		}, []string{"integration", "type"}),
	}
}

// ObserveSync records one adapter invocation.
func (m *SyncMetrics) ObserveSync(integration, entity string, success bool, elapsed time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	m.attempts.WithLabelValues(integration, entity, result).Inc()
	m.duration.WithLabelValues(integration, entity).Observe(elapsed.Seconds())
}

// WebhookReceived records one inbound webhook event.
func (m *SyncMetrics) WebhookReceived(integration, eventType string) {
	m.webhooks.WithLabelValues(integration, eventType).Inc()
}

// Handler returns the HTTP handler serving the scrape endpoint.
func (m *SyncMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
