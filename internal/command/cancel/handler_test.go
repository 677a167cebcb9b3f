package cancel

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
	o := orderv1.New("sess-1", "clord-1", "AAPL", orderv1.SideBuy, orderv1.TypeMarket, "acct-1", decimal.RequireFromString("100"), orderv1.AssetClassEquity)
	o.SetIdentity("order-1", 1, "", "")
	require.NoError(t, o.Create(orderv1.StandardMachine()))
	require.NoError(t, o.MarkAccepted(orderv1.StandardMachine(), orderv1.StateUnack))
	require.NoError(t, o.MarkLive(orderv1.StandardMachine()))
	o.Events()
	repo.Put(o)
	return o, repo
}

func newHandler(repo *testsupport.FakeRepository) *Handler {
	return NewHandler(repo, testsupport.FakeUoW{}, orderv1.StandardMachine(), cancelstatev1.Machine(), pipeline.NoopMetrics{}, "order-events", 3, nil)
}

func TestHandler_Handle_RaisesPendingCancel(t *testing.T) {
	_, repo := newLiveOrder(t)
	h := newHandler(repo)

	order, err := h.Handle(context.Background(), Command{OrderID: "order-1", Confirm: false, CorrelationID: "corr-1"})
	require.NoError(t, err)
	require.Equal(t, cancelstatev1.PendingCancel, order.CancelState())
	require.Equal(t, orderv1.StateLive, order.State())
}

func TestHandler_Handle_ConfirmResolvesToCanceled(t *testing.T) {
	_, repo := newLiveOrder(t)
	h := newHandler(repo)

	_, err := h.Handle(context.Background(), Command{OrderID: "order-1", Confirm: false, CorrelationID: "corr-1"})
	require.NoError(t, err)

	order, err := h.Handle(context.Background(), Command{OrderID: "order-1", Confirm: true, CorrelationID: "corr-2"})
	require.NoError(t, err)
	require.Equal(t, orderv1.StateCanceled, order.State())
}

func TestHandler_Handle_RejectsCancelFromRejectedState(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	o := orderv1.New("sess-1", "clord-1", "AAPL", orderv1.SideBuy, orderv1.TypeMarket, "acct-1", decimal.RequireFromString("100"), orderv1.AssetClassEquity)
	o.SetIdentity("order-1", 1, "", "")
	require.NoError(t, o.Create(orderv1.StandardMachine()))
	require.NoError(t, o.MarkRejected(orderv1.StandardMachine(), "no liquidity"))
	o.Events()
	repo.Put(o)

	h := newHandler(repo)
	_, err := h.Handle(context.Background(), Command{OrderID: "order-1", Confirm: false, CorrelationID: "corr-1"})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindInvalidTransition, oerr.Problem.Kind)
}

func TestHandler_Handle_NotFoundOrder(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	h := newHandler(repo)

	_, err := h.Handle(context.Background(), Command{OrderID: "missing", Confirm: false, CorrelationID: "corr-1"})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindNotFound, oerr.Problem.Kind)
}
