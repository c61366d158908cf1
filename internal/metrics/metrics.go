// Package metrics exposes Prometheus instruments for ingestion and reporting.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the watcher metrics. All methods are safe on a nil
// receiver so components can run without metrics.
type Metrics struct {
	IngestEvents  *prometheus.CounterVec
	StoreDays     prometheus.Gauge
	ParseDuration *prometheus.HistogramVec
	ReportsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New constructs the metrics and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		IngestEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saleswatch_ingest_events_total",
				Help: "Filesystem events handled, by event and result",
			},
			[]string{"event", "result"},
		),
		StoreDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "saleswatch_store_days",
			Help: "Number of dates held in the sales store",
		}),
		ParseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "saleswatch_parse_duration_seconds",
				Help:    "Sales file parse duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		ReportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saleswatch_reports_total",
				Help: "Report tables generated, by kind",
			},
			[]string{"kind"},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.IngestEvents,
		m.StoreDays,
		m.ParseDuration,
		m.ReportsTotal,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveEvent(event, result string) {
	if m == nil {
		return
	}
	m.IngestEvents.WithLabelValues(event, result).Inc()
}

func (m *Metrics) ObserveParse(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ParseDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (m *Metrics) SetStoreSize(n int) {
	if m == nil {
		return
	}
	m.StoreDays.Set(float64(n))
}

func (m *Metrics) ObserveReport(kind string) {
	if m == nil {
		return
	}
	m.ReportsTotal.WithLabelValues(kind).Inc()
}
