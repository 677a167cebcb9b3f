package replace

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cancelstatev1 "github.com/oms-core/engine/internal/domain/cancelstate/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/errs"
	"github.com/oms-core/engine/internal/pipeline"
	"github.com/oms-core/engine/internal/testsupport"
)

func newLiveOrder(t *testing.T) (*orderv1.Order, *testsupport.FakeRepository) {
	t.Helper()
	repo := testsupport.NewFakeRepository()
	o := orderv1.New("sess-1", "clord-1", "AAPL", orderv1.SideBuy, orderv1.TypeLimit, "acct-1", decimal.RequireFromString("100"), orderv1.AssetClassEquity)
	o.SetIdentity("order-1", 1, "", "")
	require.NoError(t, o.Create(orderv1.StandardMachine()))
	require.NoError(t, o.MarkAccepted(orderv1.StandardMachine(), orderv1.StateUnack))
	require.NoError(t, o.MarkLive(orderv1.StandardMachine()))
	o.Events()
	repo.Put(o)
	return o, repo
}

func newHandler(repo *testsupport.FakeRepository) *Handler {
	return NewHandler(repo, testsupport.FakeUoW{}, cancelstatev1.Machine(), pipeline.NoopMetrics{}, "order-events", 3, nil)
}

func TestHandler_Handle_RaisesPendingReplace(t *testing.T) {
	_, repo := newLiveOrder(t)
	h := newHandler(repo)

	newQty := decimal.RequireFromString("150")
	order, err := h.Handle(context.Background(), Command{OrderID: "order-1", NewOrderQty: newQty, Confirm: false, CorrelationID: "corr-1"})
	require.NoError(t, err)
	require.Equal(t, cancelstatev1.PendingReplace, order.CancelState())
	require.True(t, order.OrderQty().Equal(decimal.RequireFromString("100")))
}

func TestHandler_Handle_ConfirmAppliesNewTerms(t *testing.T) {
	_, repo := newLiveOrder(t)
	h := newHandler(repo)

	newQty := decimal.RequireFromString("150")
	_, err := h.Handle(context.Background(), Command{OrderID: "order-1", NewOrderQty: newQty, Confirm: false, CorrelationID: "corr-1"})
	require.NoError(t, err)

	order, err := h.Handle(context.Background(), Command{OrderID: "order-1", NewOrderQty: newQty, Confirm: true, CorrelationID: "corr-2"})
	require.NoError(t, err)
	require.True(t, order.OrderQty().Equal(newQty))
	require.Equal(t, cancelstatev1.Replaced, order.CancelState())
}

func TestHandler_Handle_RejectsReplaceBelowCumQty(t *testing.T) {
	_, repo := newLiveOrder(t)
	h := newHandler(repo)

	order, err := h.repo.FindByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	require.NoError(t, order.ApplyExecution(orderv1.StandardMachine(), decimal.RequireFromString("60"), decimal.RequireFromString("10"), "corr-exec"))
	order.Events()

	newQty := decimal.RequireFromString("50")
	_, err = h.Handle(context.Background(), Command{OrderID: "order-1", NewOrderQty: newQty, Confirm: false, CorrelationID: "corr-1"})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), Command{OrderID: "order-1", NewOrderQty: newQty, Confirm: true, CorrelationID: "corr-2"})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindInvalidTransition, oerr.Problem.Kind)
}

func TestHandler_Handle_NotFoundOrder(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	h := newHandler(repo)

	_, err := h.Handle(context.Background(), Command{OrderID: "missing", CorrelationID: "corr-1"})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindNotFound, oerr.Problem.Kind)
}
