// Package metrics exposes Prometheus counters for sync and token outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewdesk"

// Metrics owns its registry so tests can build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	syncRuns         *prometheus.CounterVec
	reviewsMerged    *prometheus.CounterVec
	tokenRefreshes   *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	replyChanges     *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		syncRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_sync_runs_total",
			Help:      "Review sync runs by outcome.",
		}, []string{"outcome"}),
		reviewsMerged: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_merged_total",
			Help:      "Reviews merged into the cache by action.",
		}, []string{"action"}),
		tokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "google_token_refreshes_total",
			Help:      "Google access token refreshes by outcome.",
		}, []string{"outcome"}),
		upstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "google_upstream_failures_total",
			Help:      "Failed Google calls by surface.",
		}, []string{"surface"}),
		replyChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_reply_changes_total",
			Help:      "Replies published or deleted through this service.",
		}, []string{"action"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SyncFinished(outcome string) {
	m.syncRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ReviewsMerged(action string, count int) {
	if count <= 0 {
		return
	}
	m.reviewsMerged.WithLabelValues(action).Add(float64(count))
}

func (m *Metrics) TokenRefreshed(outcome string) {
	m.tokenRefreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) UpstreamFailed(surface string) {
	m.upstreamFailures.WithLabelValues(surface).Inc()
}

func (m *Metrics) ReplyChanged(action string) {
	m.replyChanges.WithLabelValues(action).Inc()
}
