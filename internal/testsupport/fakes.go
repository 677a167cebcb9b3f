// Package testsupport holds in-memory ports.OrderRepository/ports.UnitOfWork
// doubles shared by the command package tests, so each command package
// doesn't reimplement its own. Not imported by cmd/main.go or internal/di.
package testsupport

import (
	"context"
	"sync"

	execv1 "github.com/oms-core/engine/internal/domain/execution/v1"
	eventv1 "github.com/oms-core/engine/internal/domain/event/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/ports"
)

// FakeUoW is a no-op ports.UnitOfWork: Begin/Commit/Rollback pass the
// context through untouched, so FakeRepository's writes apply immediately.
type FakeUoW struct{}

func (FakeUoW) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (FakeUoW) Commit(context.Context) error                       { return nil }
func (FakeUoW) Rollback(context.Context) error                     { return nil }

// FakeRepository is an in-memory ports.OrderRepository.
type FakeRepository struct {
	mu      sync.Mutex
	orders  map[string]*orderv1.Order
	byClOrd map[string]string // sessionID|clOrdID -> orderID

	SaveOrderErr              error
	SaveOrderWithExecutionErr error
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		orders:  make(map[string]*orderv1.Order),
		byClOrd: make(map[string]string),
	}
}

func clOrdKey(sessionID, clOrdID string) string { return sessionID + "|" + clOrdID }

func (r *FakeRepository) Put(o *orderv1.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.OrderID()] = o
	r.byClOrd[clOrdKey(o.SessionID(), o.ClOrdID())] = o.OrderID()
}

func (r *FakeRepository) FindByOrderID(_ context.Context, orderID string) (*orderv1.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return o, nil
}

func (r *FakeRepository) FindBySessionIDAndClOrdID(_ context.Context, sessionID, clOrdID string) (*orderv1.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orderID, ok := r.byClOrd[clOrdKey(sessionID, clOrdID)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.orders[orderID], nil
}

func (r *FakeRepository) ExistsBySessionIDAndClOrdID(ctx context.Context, sessionID, clOrdID string) (bool, error) {
	_, err := r.FindBySessionIDAndClOrdID(ctx, sessionID, clOrdID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *FakeRepository) FindChildren(context.Context, string) ([]*orderv1.Order, error) {
	return nil, nil
}

func (r *FakeRepository) FindTree(context.Context, string) ([]*orderv1.Order, error) {
	return nil, nil
}

func (r *FakeRepository) SaveOrderTx(_ context.Context, o *orderv1.Order, _ *eventv1.OrderEvent, _ *ports.OutboxRow) error {
	if r.SaveOrderErr != nil {
		return r.SaveOrderErr
	}
	r.Put(o)
	return nil
}

func (r *FakeRepository) SaveOrderWithExecutionTx(_ context.Context, o *orderv1.Order, _ *execv1.Execution, _ *eventv1.OrderEvent, _, _ *ports.OutboxRow) error {
	if r.SaveOrderWithExecutionErr != nil {
		return r.SaveOrderWithExecutionErr
	}
	r.Put(o)
	return nil
}

var (
	_ ports.UnitOfWork      = FakeUoW{}
	_ ports.OrderRepository = (*FakeRepository)(nil)
)
