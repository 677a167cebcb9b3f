// Package command hosts the shared Processor every per-command package
// (create, accept, cancel, replace, fill) builds on: it owns the
// transaction lifecycle and the bounded Conflict retry loop around a static
// pipeline.Pipeline built once at construction time (spec §4.6, §7).
package command

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/oms-core/engine/internal/errs"
	"github.com/oms-core/engine/internal/pipeline"
	"github.com/oms-core/engine/internal/ports"
)

// Result is what Processor.Process returns on success.
type Result struct {
	Subject  any
	Pipeline pipeline.PipelineResult
}

// Processor runs a fixed pipeline.Pipeline inside a UnitOfWork-managed
// transaction, retrying on KindConflict with exponential backoff (spec §7).
type Processor struct {
	UoW          ports.UnitOfWork
	Orchestrator *pipeline.Orchestrator
	Pipeline     *pipeline.Pipeline
	MaxRetries   int
	BackoffBase  time.Duration
	BackoffMax   time.Duration
}

// NewProcessor builds a Processor with the spec's default Conflict retry
// budget (processor.conflict.max_retries, default 3, per §6.5/§7).
func NewProcessor(uow ports.UnitOfWork, orchestrator *pipeline.Orchestrator, p *pipeline.Pipeline, maxRetries int) *Processor {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Processor{
		UoW:          uow,
		Orchestrator: orchestrator,
		Pipeline:     p,
		MaxRetries:   maxRetries,
		BackoffBase:  20 * time.Millisecond,
		BackoffMax:   500 * time.Millisecond,
	}
}

// loadFunc re-fetches the subject for a retry attempt, since a Conflict
// means the in-memory subject from the prior attempt is stale.
type loadFunc func(ctx context.Context) (any, error)

// Process runs the pipeline once per attempt inside its own transaction,
// retrying up to MaxRetries times when a task fails with a Conflict error,
// and giving up (rolling back) on any other failure.
func (p *Processor) Process(ctx context.Context, load loadFunc, cmd any, correlationID string) (Result, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.BackoffBase
	bo.MaxInterval = p.BackoffMax

	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		result, err := p.attempt(ctx, load, cmd, correlationID)
		if err == nil {
			return result, nil
		}

		var conflict *errs.Error
		if errors.As(err, &conflict) && conflict.Problem.Kind == errs.KindConflict && attempt < p.MaxRetries {
			lastErr = err
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(bo.NextBackOff()):
			}
			continue
		}

		return Result{}, err
	}

	return Result{}, lastErr
}

func (p *Processor) attempt(ctx context.Context, load loadFunc, cmd any, correlationID string) (Result, error) {
	txCtx, err := p.UoW.Begin(ctx)
	if err != nil {
		return Result{}, errs.Wrap(errs.KindExternal, "TX_BEGIN_FAILED", "failed to begin transaction", correlationID, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = p.UoW.Rollback(txCtx)
		}
	}()

	subject, err := load(txCtx)
	if err != nil {
		return Result{}, err
	}

	tc := pipeline.NewTaskContext(subject, cmd, correlationID)
	pipelineResult := p.Orchestrator.Execute(txCtx, p.Pipeline, tc)

	if tc.Failed() {
		return Result{}, tc.Errors[0]
	}

	if err := p.UoW.Commit(txCtx); err != nil {
		return Result{}, errs.Wrap(errs.KindExternal, "TX_COMMIT_FAILED", "failed to commit transaction", correlationID, err)
	}
	committed = true

	return Result{Subject: tc.Subject, Pipeline: pipelineResult}, nil
}
