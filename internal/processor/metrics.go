package processor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects per-layer run counters on a private registry so they can
// be dumped to a node-exporter textfile at the end of a batch run.
type Metrics struct {
	registry *prometheus.Registry

	features *prometheus.CounterVec
	outputs  *prometheus.CounterVec
	warnings *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.GaugeVec
	lastRun  prometheus.Gauge
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.features = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dateline_features_total",
			Help: "Input features by layer and outcome",
		},
		[]string{"layer", "status"},
	)

	m.outputs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dateline_output_features_total",
			Help: "Features written per layer",
		},
		[]string{"layer"},
	)

	m.warnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dateline_warnings_total",
			Help: "Non-fatal diagnostics raised while correcting features",
		},
		[]string{"layer"},
	)

	m.failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dateline_layer_failures_total",
			Help: "Layers that could not be read or written",
		},
		[]string{"layer"},
	)

	m.duration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dateline_layer_duration_seconds",
			Help: "Wall time spent on the last run of a layer",
		},
		[]string{"layer"},
	)

	m.lastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dateline_last_run_timestamp_seconds",
			Help: "Unix time the last batch run finished",
		},
	)

	m.registry.MustRegister(m.features, m.outputs, m.warnings, m.failures, m.duration, m.lastRun)
	return m
}

// Registry exposes the collectors, e.g. for promhttp or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records the outcome of one layer.
func (m *Metrics) Observe(layer string, s Stats, took time.Duration) {
	m.features.WithLabelValues(layer, "unchanged").Add(float64(s.Unchanged))
	m.features.WithLabelValues(layer, "corrected").Add(float64(s.Corrected))
	m.features.WithLabelValues(layer, "split").Add(float64(s.Split))
	m.features.WithLabelValues(layer, "passed_through").Add(float64(s.PassedThrough))
	m.features.WithLabelValues(layer, "dropped").Add(float64(s.Dropped))
	m.outputs.WithLabelValues(layer).Add(float64(s.Output))
	m.warnings.WithLabelValues(layer).Add(float64(s.Warnings))
	m.duration.WithLabelValues(layer).Set(took.Seconds())
}

// Failed records a layer that could not be processed.
func (m *Metrics) Failed(layer string) {
	m.failures.WithLabelValues(layer).Inc()
}

// WriteTextfile stamps the run time and writes every metric to path in the
// text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	m.lastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
