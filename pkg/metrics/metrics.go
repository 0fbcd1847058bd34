package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's Prometheus instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	detections       *prometheus.CounterVec
	anomaliesFlagged prometheus.Counter
	toolInvocations  *prometheus.CounterVec
	renderDuration   prometheus.Histogram
	hostingFailures  prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the instruments and registers them on reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anomalymaestro_detections_total",
			Help: "Detection runs by outcome (ok, empty_input, invalid_parameter, error).",
		}, []string{"outcome"}),
		anomaliesFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anomalymaestro_anomalies_flagged_total",
			Help: "Readings labelled anomalous across all detection runs.",
		}),
		toolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anomalymaestro_tool_invocations_total",
			Help: "Tool invocations by tool name.",
		}, []string{"tool"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anomalymaestro_render_seconds",
			Help:    "Time spent rendering anomaly charts.",
			Buckets: prometheus.DefBuckets,
		}),
		hostingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anomalymaestro_hosting_failures_total",
			Help: "Chart uploads that fell back to local storage.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.detections,
		m.anomaliesFlagged,
		m.toolInvocations,
		m.renderDuration,
		m.hostingFailures,
	)

	return m
}

// ObserveDetection records a detection run
func (m *Metrics) ObserveDetection(outcome string, anomalies int) {
	if m == nil {
		return
	}
	m.detections.WithLabelValues(outcome).Inc()
	m.anomaliesFlagged.Add(float64(anomalies))
}

// ObserveTool records a tool invocation
func (m *Metrics) ObserveTool(tool string) {
	if m == nil {
		return
	}
	m.toolInvocations.WithLabelValues(tool).Inc()
}

// ObserveRender records render latency
func (m *Metrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.Observe(d.Seconds())
}

// ObserveHostingFailure records a failed upload
func (m *Metrics) ObserveHostingFailure() {
	if m == nil {
		return
	}
	m.hostingFailures.Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
