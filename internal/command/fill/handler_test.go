package fill

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/errs"
	"github.com/oms-core/engine/internal/pipeline"
	"github.com/oms-core/engine/internal/testsupport"
)

func newLiveOrder(t *testing.T, qty string) (*orderv1.Order, *testsupport.FakeRepository) {
	t.Helper()
	repo := testsupport.NewFakeRepository()
	o := orderv1.New("sess-1", "clord-1", "AAPL", orderv1.SideBuy, orderv1.TypeMarket, "acct-1", decimal.RequireFromString(qty), orderv1.AssetClassEquity)
	o.SetIdentity("order-1", 1, "", "")
	require.NoError(t, o.Create(orderv1.StandardMachine()))
	require.NoError(t, o.MarkAccepted(orderv1.StandardMachine(), orderv1.StateUnack))
	require.NoError(t, o.MarkLive(orderv1.StandardMachine()))
	o.Events()
	repo.Put(o)
	return o, repo
}

func newHandler(repo *testsupport.FakeRepository) *Handler {
	return NewHandler(repo, testsupport.FakeUoW{}, orderv1.StandardMachine(), pipeline.NoopMetrics{}, "order-events", 3, nil)
}

func TestHandler_Handle_PartialFill(t *testing.T) {
	_, repo := newLiveOrder(t, "100")
	h := newHandler(repo)

	order, err := h.Handle(context.Background(), Command{
		OrderID: "order-1", ExecID: "exec-1",
		LastQty: decimal.RequireFromString("40"), LastPx: decimal.RequireFromString("10"),
		CorrelationID: "corr-1",
	})
	require.NoError(t, err)
	require.Equal(t, orderv1.StatePartiallyFilled, order.State())
	require.True(t, order.CumQty().Equal(decimal.RequireFromString("40")))
	require.True(t, order.AvgPx().Equal(decimal.RequireFromString("10")))
}

func TestHandler_Handle_FullFillMovesToFilled(t *testing.T) {
	_, repo := newLiveOrder(t, "40")
	h := newHandler(repo)

	order, err := h.Handle(context.Background(), Command{
		OrderID: "order-1", ExecID: "exec-1",
		LastQty: decimal.RequireFromString("40"), LastPx: decimal.RequireFromString("10"),
		CorrelationID: "corr-1",
	})
	require.NoError(t, err)
	require.Equal(t, orderv1.StateFilled, order.State())
	require.True(t, order.CumQty().Equal(decimal.RequireFromString("40")))
}

func TestHandler_Handle_RejectsOverfill(t *testing.T) {
	_, repo := newLiveOrder(t, "40")
	h := newHandler(repo)

	_, err := h.Handle(context.Background(), Command{
		OrderID: "order-1", ExecID: "exec-1",
		LastQty: decimal.RequireFromString("50"), LastPx: decimal.RequireFromString("10"),
		CorrelationID: "corr-1",
	})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindValidation, oerr.Problem.Kind)
	require.Equal(t, "OVERFILL", oerr.Problem.Code)
}

func TestHandler_Handle_RejectsFillWhenNotLiveOrPartiallyFilled(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	o := orderv1.New("sess-1", "clord-1", "AAPL", orderv1.SideBuy, orderv1.TypeMarket, "acct-1", decimal.RequireFromString("100"), orderv1.AssetClassEquity)
	o.SetIdentity("order-1", 1, "", "")
	require.NoError(t, o.Create(orderv1.StandardMachine()))
	o.Events()
	repo.Put(o)

	h := newHandler(repo)
	_, err := h.Handle(context.Background(), Command{
		OrderID: "order-1", ExecID: "exec-1",
		LastQty: decimal.RequireFromString("10"), LastPx: decimal.RequireFromString("10"),
		CorrelationID: "corr-1",
	})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindValidation, oerr.Problem.Kind)
}

func TestHandler_Handle_NotFoundOrder(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	h := newHandler(repo)

	_, err := h.Handle(context.Background(), Command{OrderID: "missing", ExecID: "exec-1", CorrelationID: "corr-1"})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindNotFound, oerr.Problem.Kind)
}
