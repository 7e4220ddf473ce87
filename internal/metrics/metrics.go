// Package metrics provides Prometheus metrics for the alert receiver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "alert_receiver"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)
)

// Ingestion metrics
var (
	// AlertsReceivedTotal counts accepted alerts by normalized severity.
	AlertsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "alerts_total",
			Help:      "Total alerts accepted, by severity",
		},
		[]string{"severity"},
	)

	// PayloadsRejectedTotal counts bodies that were not a JSON object.
	PayloadsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "payloads_rejected_total",
			Help:      "Total alert payloads rejected as malformed",
		},
	)

	// PersistenceFailuresTotal counts failed writes to the durable alert log.
	PersistenceFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "persistence_failures_total",
			Help:      "Total alerts that could not be written to the durable log",
		},
	)

	// PlaybookMatchesTotal counts alerts that triggered a response playbook.
	PlaybookMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "playbook_matches_total",
			Help:      "Total alerts matched to a response playbook",
		},
		[]string{"playbook"},
	)

	// HistorySize tracks the number of events retained in memory.
	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "events",
			Help:      "Number of alert events retained in memory",
		},
	)

	// HistoryEvictionsTotal counts events dropped from the in-memory history.
	HistoryEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "evictions_total",
			Help:      "Total alert events evicted from the in-memory history",
		},
	)
)
