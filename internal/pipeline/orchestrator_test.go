package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oms-core/engine/internal/pipeline"
)

func succeedTask(order int) *pipeline.FuncTask {
	return pipeline.NewFuncTask("succeed", order, func(ctx context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
		return pipeline.TaskResult{Status: pipeline.StatusSuccess}
	}, nil)
}

func failTask(order int) *pipeline.FuncTask {
	return pipeline.NewFuncTask("fail", order, func(ctx context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
		return pipeline.TaskResult{Status: pipeline.StatusFailed, Err: errors.New("boom")}
	}, nil)
}

func TestOrchestrator_RunsAllTasksOnSuccess(t *testing.T) {
	p := pipeline.New("test", true, true, succeedTask(1), succeedTask(2))
	tc := pipeline.NewTaskContext(nil, nil, "corr-1")
	o := pipeline.NewOrchestrator(nil)

	result := o.Execute(context.Background(), p, tc)
	require.Equal(t, pipeline.StatusSuccess, result.Status)
	require.Len(t, result.TaskResults, 2)
	require.False(t, result.Aborted)
	require.False(t, tc.Failed())
}

func TestOrchestrator_StopsOnFailureWhenConfigured(t *testing.T) {
	p := pipeline.New("test", true, true, failTask(1), succeedTask(2))
	tc := pipeline.NewTaskContext(nil, nil, "corr-1")
	o := pipeline.NewOrchestrator(nil)

	result := o.Execute(context.Background(), p, tc)
	require.Equal(t, pipeline.StatusFailed, result.Status)
	require.True(t, result.Aborted)
	require.Len(t, result.TaskResults, 1)
	require.True(t, tc.Failed())
}

func TestOrchestrator_ContinuesOnFailureWhenNotConfigured(t *testing.T) {
	p := pipeline.New("test", false, true, failTask(1), succeedTask(2))
	tc := pipeline.NewTaskContext(nil, nil, "corr-1")
	o := pipeline.NewOrchestrator(nil)

	result := o.Execute(context.Background(), p, tc)
	require.Equal(t, pipeline.StatusFailed, result.Status)
	require.False(t, result.Aborted)
	require.Len(t, result.TaskResults, 2)
}

func TestOrchestrator_SkipsOnFailedPrecondition(t *testing.T) {
	task := pipeline.NewFuncTask("conditional", 1, func(ctx context.Context, tc *pipeline.TaskContext) pipeline.TaskResult {
		return pipeline.TaskResult{Status: pipeline.StatusSuccess}
	}, func(tc *pipeline.TaskContext) bool { return false })

	p := pipeline.New("test", true, true, task)
	tc := pipeline.NewTaskContext(nil, nil, "corr-1")
	o := pipeline.NewOrchestrator(nil)

	result := o.Execute(context.Background(), p, tc)
	require.Equal(t, pipeline.StatusSkipped, result.TaskResults[0].Result.Status)
}

func TestOrchestrator_AbortsOnExceededDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := pipeline.New("test", true, true, succeedTask(1))
	tc := pipeline.NewTaskContext(nil, nil, "corr-1")
	o := pipeline.NewOrchestrator(nil)

	result := o.Execute(ctx, p, tc)
	require.True(t, result.Aborted)
	require.Empty(t, result.TaskResults)
	require.True(t, tc.Failed())
}
