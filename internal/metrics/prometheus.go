// Package metrics exports dialogue metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notes_bot"

// Recorder is what the dialogue service reports to.
type Recorder interface {
	RecordTurn(intent string, latency time.Duration, success bool)
	RecordSearch(tier string)
	RecordFailure(operation string)
	RecordSendFailure(transport string)
}

type PrometheusExporter struct {
	registry *prometheus.Registry

	turnLatency  *prometheus.HistogramVec
	turns        *prometheus.CounterVec
	searchTiers  *prometheus.CounterVec
	failures     *prometheus.CounterVec
	sendFailures *prometheus.CounterVec
}

// NewPrometheusExporter registers the collectors on a private registry, so
// several exporters can live in one process during tests.
func NewPrometheusExporter() *PrometheusExporter {
	registry := prometheus.NewRegistry()

	e := &PrometheusExporter{registry: registry}

	e.turnLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "turn_latency_seconds",
			Help:      "Time spent handling one inbound message",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"intent"},
	)

	e.turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "turns_total",
			Help:      "Handled messages by resolved intent and outcome",
		},
		[]string{"intent", "status"},
	)

	e.searchTiers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "results_total",
			Help:      "Keyword searches by the tier that produced the results",
		},
		[]string{"tier"},
	)

	e.failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dialogue",
			Name:      "failures_total",
			Help:      "Store or classifier failures answered with an apology",
		},
		[]string{"operation"},
	)

	e.sendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "send_failures_total",
			Help:      "Replies that could not be delivered",
		},
		[]string{"transport"},
	)

	registry.MustRegister(
		e.turnLatency,
		e.turns,
		e.searchTiers,
		e.failures,
		e.sendFailures,
		collectors.NewGoCollector(),
	)

	return e
}

func (e *PrometheusExporter) RecordTurn(intent string, latency time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	e.turns.WithLabelValues(intent, status).Inc()
	e.turnLatency.WithLabelValues(intent).Observe(latency.Seconds())
}

func (e *PrometheusExporter) RecordSearch(tier string) {
	e.searchTiers.WithLabelValues(tier).Inc()
}

func (e *PrometheusExporter) RecordFailure(operation string) {
	e.failures.WithLabelValues(operation).Inc()
}

func (e *PrometheusExporter) RecordSendFailure(transport string) {
	e.sendFailures.WithLabelValues(transport).Inc()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *PrometheusExporter) Registry() *prometheus.Registry {
	return e.registry
}

// NopRecorder drops everything.
type NopRecorder struct{}

func (NopRecorder) RecordTurn(string, time.Duration, bool) {}
func (NopRecorder) RecordSearch(string)                    {}
func (NopRecorder) RecordFailure(string)                   {}
func (NopRecorder) RecordSendFailure(string)               {}
