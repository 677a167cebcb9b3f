package pipeline

import "time"

// Metrics is the pluggable observability sink the Orchestrator reports
// per-task outcomes to. The default production implementation is backed by
// prometheus/client_golang (internal/platform/metrics); tests use NoopMetrics.
type Metrics interface {
	ObserveTask(pipeline, task string, status TaskStatus, dur time.Duration)
}

// NoopMetrics discards every observation. Used where no sink is wired, and
// as the zero value fallback inside Orchestrator.
type NoopMetrics struct{}

func (NoopMetrics) ObserveTask(string, string, TaskStatus, time.Duration) {}
