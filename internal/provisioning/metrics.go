package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "unifictl"

// Resource actions counted by Metrics.
const (
	ActionEnsure = "ensure"
	ActionDelete = "delete"
	ActionFail   = "fail"
)

// Metrics holds the per-run Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	PhaseDuration *prometheus.GaugeVec
	Resources     *prometheus.CounterVec
	LastSuccess   prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PhaseDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of the last run of each provisioning phase",
			},
			[]string{"phase"},
		),
		Resources: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "resources_total",
				Help:      "Resources handled during the run by type and action",
			},
			[]string{"type", "action"},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "apply_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful apply",
			},
		),
	}
	m.Registry.MustRegister(m.PhaseDuration, m.Resources, m.LastSuccess)
	return m
}

// ObservePhase records how long a phase took.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.PhaseDuration.WithLabelValues(phase).Set(d.Seconds())
}

// CountResource increments the resource counter.
func (m *Metrics) CountResource(resourceType, action string) {
	if m == nil {
		return
	}
	m.Resources.WithLabelValues(resourceType, action).Inc()
}

// MarkSuccess stamps the last-success gauge with t.
func (m *Metrics) MarkSuccess(t time.Time) {
	if m == nil {
		return
	}
	m.LastSuccess.Set(float64(t.Unix()))
}

// WriteToTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
