// Package ports collects the narrow interfaces the command processors (C6)
// depend on, so they can be wired against either the real postgres store or
// a test double without either side depending on the concrete package.
package ports

import "context"

// UnitOfWork owns the lifetime of one transaction per command invocation,
// per spec §4.6: "the processor is the ONLY layer that manages transaction
// lifecycle."
type UnitOfWork interface {
	// Begin starts a transaction and returns a context carrying it.
	Begin(ctx context.Context) (context.Context, error)
	// Commit commits the transaction carried in ctx.
	Commit(ctx context.Context) error
	// Rollback rolls back the transaction carried in ctx. Safe to call
	// after a successful Commit (no-op).
	Rollback(ctx context.Context) error
}
