package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the console's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Transitions     *prometheus.CounterVec
	StockRejections prometheus.Counter
	RevenueEntries  prometheus.Counter
	ActiveSessions  prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	Backups         *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions by target status.",
		}, []string{"status"}),
		StockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "stock_rejections_total",
			Help:      "Completions rejected for insufficient stock.",
		}),
		RevenueEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "revenue_entries_total",
			Help:      "Revenue entries generated by completed appointments.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "studio",
			Name:      "active_sessions",
			Help:      "Sessions with a pending completion timer.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Name:      "backups_total",
			Help:      "Backup runs by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Transitions,
		m.StockRejections,
		m.RevenueEntries,
		m.ActiveSessions,
		m.HTTPRequests,
		m.HTTPDuration,
		m.Backups,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
