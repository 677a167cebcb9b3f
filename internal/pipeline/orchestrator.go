package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Namer is optionally implemented by a Task to give it a human-readable
// name for logging/metrics; tasks that don't implement it are identified by
// their Go type name instead.
type Namer interface {
	Name() string
}

// PipelineResult is the full outcome of one Orchestrator.Execute call.
type PipelineResult struct {
	PipelineName string
	TaskResults  []NamedTaskResult
	Status       TaskStatus // worst status observed, Success if every task succeeded or was skipped
	Aborted      bool       // true if a deadline or StopOnFailure ended the run early
}

// NamedTaskResult pairs a TaskResult with the task that produced it.
type NamedTaskResult struct {
	TaskName string
	Result   TaskResult
}

// Orchestrator runs a Pipeline against a TaskContext, reporting per-task
// outcomes to Metrics (spec §4.3):
//  1. For each task in order, check the deadline; abort if exceeded.
//  2. Evaluate the task's Precondition; skip (do not run) if false.
//  3. Run the task, recording its TaskResult.
//  4. On TaskStatus Failed, record the error on the TaskContext and, if
//     StopOnFailure, stop running further tasks.
//  5. Return the aggregated PipelineResult.
type Orchestrator struct {
	Metrics Metrics
}

// NewOrchestrator builds an Orchestrator. metrics may be nil, in which case
// observations are discarded.
func NewOrchestrator(metrics Metrics) *Orchestrator {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Orchestrator{Metrics: metrics}
}

func taskName(t Task) string {
	if n, ok := t.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", t)
}

func worstStatus(current, next TaskStatus) TaskStatus {
	rank := func(s TaskStatus) int {
		switch s {
		case StatusFailed:
			return 3
		case StatusWarning:
			return 2
		case StatusSkipped:
			return 1
		default:
			return 0
		}
	}
	if rank(next) > rank(current) {
		return next
	}
	return current
}

// Execute runs every task in p against tc, in p.Tasks order (already sorted
// at construction time if p.SortByOrder was set).
func (o *Orchestrator) Execute(ctx context.Context, p *Pipeline, tc *TaskContext) PipelineResult {
	result := PipelineResult{
		PipelineName: p.Name,
		TaskResults:  make([]NamedTaskResult, 0, len(p.Tasks)),
		Status:       StatusSuccess,
	}

	for _, task := range p.Tasks {
		if deadlineExceeded(ctx) {
			result.Aborted = true
			result.Status = worstStatus(result.Status, StatusFailed)
			tc.AddError(ctx.Err())
			break
		}

		name := taskName(task)

		if !task.Precondition(tc) {
			result.TaskResults = append(result.TaskResults, NamedTaskResult{
				TaskName: name,
				Result:   TaskResult{Status: StatusSkipped, Message: "precondition not met"},
			})
			o.Metrics.ObserveTask(p.Name, name, StatusSkipped, 0)
			continue
		}

		start := time.Now()
		taskResult := task.Execute(ctx, tc)
		dur := time.Since(start)

		result.TaskResults = append(result.TaskResults, NamedTaskResult{TaskName: name, Result: taskResult})
		result.Status = worstStatus(result.Status, taskResult.Status)
		o.Metrics.ObserveTask(p.Name, name, taskResult.Status, dur)

		if taskResult.Status == StatusFailed {
			tc.AddError(taskResult.Err)
			if p.StopOnFailure {
				result.Aborted = true
				break
			}
		}
	}

	return result
}
