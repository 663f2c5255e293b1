// Package metrics records workflow activity as Prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xrsl/reachout/pkg/drafting"
)

// Recorder implements workflow.Recorder on a Prometheus registry.
type Recorder struct {
	registry           *prometheus.Registry
	transitionsTotal   *prometheus.CounterVec
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	deliveriesTotal    *prometheus.CounterVec
}

// New registers the reachout collectors on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reachout_transitions_total",
				Help: "Workflow state transitions by source and destination step",
			},
			[]string{"from", "to"},
		),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reachout_generations_total",
				Help: "LLM generations by stage and outcome",
			},
			[]string{"stage", "status", "error_type"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reachout_generation_duration_seconds",
				Help:    "Duration of LLM generations in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"stage"},
		),
		deliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reachout_deliveries_total",
				Help: "Dispatch attempts by content type and outcome",
			},
			[]string{"content_type", "status"},
		),
	}
	reg.MustRegister(r.transitionsTotal, r.generationsTotal, r.generationDuration, r.deliveriesTotal)
	return r
}

// Registry exposes the underlying registry for export
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Transition(from, to string) {
	r.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (r *Recorder) Generation(stage string, elapsed time.Duration, err error) {
	status, errType := "success", ""
	if err != nil {
		status, errType = "error", errorType(err)
	}
	r.generationsTotal.WithLabelValues(stage, status, errType).Inc()
	r.generationDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (r *Recorder) Delivery(contentType string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.deliveriesTotal.WithLabelValues(contentType, status).Inc()
}

func errorType(err error) string {
	var schemaErr *drafting.SchemaError
	var genErr *drafting.GenerationError
	switch {
	case errors.As(err, &schemaErr):
		return "schema"
	case errors.As(err, &genErr):
		return "generation"
	}
	return "other"
}

// WriteTextfile writes the current values in the node_exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
