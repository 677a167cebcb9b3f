// Package metrics implements pipeline.Metrics on top of
// prometheus/client_golang, grounded on the pack's NewCounterVec/
// NewHistogramVec registration style (r3e-network-service_layer pkg/metrics).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oms-core/engine/internal/pipeline"
)

// Sink records per-task pipeline outcomes as Prometheus series, registered
// against the supplied registry rather than the global default so multiple
// EngineService instances in tests don't collide on registration.
type Sink struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New registers the oms_pipeline_* series on reg and returns a Sink ready
// to pass to pipeline.NewOrchestrator.
func New(reg prometheus.Registerer) *Sink {
	s := &Sink{
		executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "oms",
				Subsystem: "pipeline",
				Name:      "task_executions_total",
				Help:      "Total number of pipeline task executions by outcome.",
			},
			[]string{"pipeline", "task", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "oms",
				Subsystem: "pipeline",
				Name:      "task_duration_seconds",
				Help:      "Duration of pipeline task executions.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"pipeline", "task"},
		),
	}
	reg.MustRegister(s.executions, s.duration)
	return s
}

// ObserveTask implements pipeline.Metrics.
func (s *Sink) ObserveTask(pipelineName, taskName string, status pipeline.TaskStatus, dur time.Duration) {
	s.executions.WithLabelValues(pipelineName, taskName, status.String()).Inc()
	s.duration.WithLabelValues(pipelineName, taskName).Observe(dur.Seconds())
}

var _ pipeline.Metrics = (*Sink)(nil)
