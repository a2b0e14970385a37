// Package observability exposes scheduler activity as Prometheus metrics.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/choregrapher/internal/choregrapher"
	"github.com/specialistvlad/choregrapher/internal/process"
)

const metricsNamespace = "choregrapher"

var _ choregrapher.Observer = (*Metrics)(nil)

// Metrics records process and step executions on its own registry, so
// several simulations in one process never share counters.
type Metrics struct {
	registry *prometheus.Registry

	processRuns     *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	steps           *prometheus.CounterVec
	stepDuration    *prometheus.HistogramVec
	focus           *prometheus.GaugeVec
}

// NewMetrics creates and registers the scheduler collectors together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		processRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "process",
				Name:      "executions_total",
				Help:      "Total process executions.",
			},
			[]string{"namespace", "process", "mode", "outcome"},
		),
		processDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "process",
				Name:      "duration_seconds",
				Help:      "Process execution duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"namespace", "process", "mode"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "step",
				Name:      "total",
				Help:      "Total simulated steps per namespace.",
			},
			[]string{"namespace", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "step",
				Name:      "duration_seconds",
				Help:      "Step duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"namespace"},
		),
		focus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "step",
				Name:      "focus_elements",
				Help:      "Number of elements in focus during the last step.",
			},
			[]string{"namespace"},
		),
	}
	m.registry.MustRegister(
		m.processRuns, m.processDuration, m.steps, m.stepDuration, m.focus,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveProcess records one process execution.
func (m *Metrics) ObserveProcess(namespace, name string, mode process.Mode, d time.Duration, err error) {
	modeLabel := mode.String()
	m.processRuns.WithLabelValues(namespace, name, modeLabel, outcome(err)).Inc()
	m.processDuration.WithLabelValues(namespace, name, modeLabel).Observe(d.Seconds())
}

// ObserveStep records one step.
func (m *Metrics) ObserveStep(namespace string, focus int, d time.Duration, err error) {
	m.steps.WithLabelValues(namespace, outcome(err)).Inc()
	m.stepDuration.WithLabelValues(namespace).Observe(d.Seconds())
	m.focus.WithLabelValues(namespace).Set(float64(focus))
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
