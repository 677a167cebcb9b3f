package accept

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

func newOrderInState(t *testing.T, state orderv1.State) (*orderv1.Order, *testsupport.FakeRepository) {
	t.Helper()
	repo := testsupport.NewFakeRepository()
	o := orderv1.New("sess-1", "clord-1", "AAPL", orderv1.SideBuy, orderv1.TypeMarket, "acct-1", decimal.RequireFromString("100"), orderv1.AssetClassEquity)
	o.SetIdentity("order-1", 1, "", "")
	require.NoError(t, o.Create(orderv1.StandardMachine()))
	if state == orderv1.StateUnack {
		require.NoError(t, o.MarkAccepted(orderv1.StandardMachine(), orderv1.StateUnack))
	}
	o.Events() // drain setup events
	repo.Put(o)
	return o, repo
}

func TestHandler_Handle_AcceptsNewOrderThroughUnackToLive(t *testing.T) {
	_, repo := newOrderInState(t, orderv1.StateNew)
	h := NewHandler(repo, testsupport.FakeUoW{}, orderv1.StandardMachine(), pipeline.NoopMetrics{}, "order-events", 3, nil)

	order, err := h.Handle(context.Background(), Command{OrderID: "order-1", To: orderv1.StateUnack, CorrelationID: "corr-1"})
	require.NoError(t, err)
	require.Equal(t, orderv1.StateLive, order.State())
}

func TestHandler_Handle_RejectsAcceptWhenNotInNewState(t *testing.T) {
	_, repo := newOrderInState(t, orderv1.StateUnack)
	h := NewHandler(repo, testsupport.FakeUoW{}, orderv1.StandardMachine(), pipeline.NoopMetrics{}, "order-events", 3, nil)

	_, err := h.Handle(context.Background(), Command{OrderID: "order-1", To: orderv1.StateUnack, CorrelationID: "corr-1"})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindInvalidTransition, oerr.Problem.Kind)
}

func TestHandler_Handle_NotFoundOrder(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	h := NewHandler(repo, testsupport.FakeUoW{}, orderv1.StandardMachine(), pipeline.NoopMetrics{}, "order-events", 3, nil)

	_, err := h.Handle(context.Background(), Command{OrderID: "missing", To: orderv1.StateUnack, CorrelationID: "corr-1"})
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindNotFound, oerr.Problem.Kind)
}
