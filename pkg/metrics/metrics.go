// Package metrics holds the Prometheus collectors shared by the bot and the dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_commands_total",
			Help: "Slash commands executed, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_gateway_events_total",
			Help: "Gateway events handled, by type",
		},
		[]string{"event"},
	)

	StoreWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_store_writes_total",
			Help: "Document writes, by document and outcome",
		},
		[]string{"document", "outcome"},
	)

	GuildsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "companion_guilds",
			Help: "Guilds the bot is a member of",
		},
	)

	LoopRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "companion_loop_runs_total",
			Help: "Background loop iterations, by loop",
		},
		[]string{"loop"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		CommandsTotal,
		EventsTotal,
		StoreWritesTotal,
		GuildsGauge,
		LoopRunsTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
