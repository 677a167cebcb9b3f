package create

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	eventv1 "github.com/oms-core/engine/internal/domain/event/v1"
	orderv1 "github.com/oms-core/engine/internal/domain/order/v1"
	"github.com/oms-core/engine/internal/errs"
	"github.com/oms-core/engine/internal/infrastructure/events"
	"github.com/oms-core/engine/internal/pipeline"
	"github.com/oms-core/engine/internal/testsupport"
)

func testRuleConfig() RuleConfig {
	return RuleConfig{
		MaxOrderQty: decimal.RequireFromString("1000000"),
	}
}

func newTestHandler(repo *testsupport.FakeRepository, publisher *events.Publisher) *Handler {
	return NewHandler(repo, testsupport.FakeUoW{}, orderv1.StandardMachine(), testRuleConfig(), pipeline.NoopMetrics{}, "order-events", 3, publisher)
}

func TestHandler_Handle_CreatesNewOrder(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	h := newTestHandler(repo, nil)

	order, err := h.Handle(context.Background(), Command{
		SessionID: "sess-1", ClOrdID: "clord-1", Symbol: "AAPL",
		Side: orderv1.SideBuy, OrdType: orderv1.TypeMarket, Account: "acct-1",
		OrderQty: decimal.RequireFromString("100"), AssetClass: orderv1.AssetClassEquity,
		CorrelationID: "corr-1",
	})

	require.NoError(t, err)
	require.Equal(t, orderv1.StateNew, order.State())
	require.NotEmpty(t, order.OrderID())
}

func TestHandler_Handle_IdempotentReplay(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	h := newTestHandler(repo, nil)

	cmd := Command{
		SessionID: "sess-1", ClOrdID: "clord-1", Symbol: "AAPL",
		Side: orderv1.SideBuy, OrdType: orderv1.TypeMarket, Account: "acct-1",
		OrderQty: decimal.RequireFromString("100"), AssetClass: orderv1.AssetClassEquity,
		CorrelationID: "corr-1",
	}

	first, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	second, err := h.Handle(context.Background(), cmd)
	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindIdempotentReplay, oerr.Problem.Kind)
	require.Equal(t, first.OrderID(), second.OrderID())
}

func TestHandler_Handle_RejectsZeroQuantity(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	h := newTestHandler(repo, nil)

	_, err := h.Handle(context.Background(), Command{
		SessionID: "sess-1", ClOrdID: "clord-1", Symbol: "AAPL",
		Side: orderv1.SideBuy, OrdType: orderv1.TypeMarket, Account: "acct-1",
		OrderQty: decimal.Zero, AssetClass: orderv1.AssetClassEquity,
		CorrelationID: "corr-1",
	})

	require.Error(t, err)
	var oerr *errs.Error
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, errs.KindValidation, oerr.Problem.Kind)
}

func TestHandler_Handle_PublishesEventOnSuccess(t *testing.T) {
	repo := testsupport.NewFakeRepository()
	publisher := events.NewPublisher()

	var received string
	publisher.Subscribe(string(eventv1.KindNewOrder), func(_ context.Context, e events.Event) error {
		received = e.EventType()
		return nil
	})

	h := newTestHandler(repo, publisher)
	_, err := h.Handle(context.Background(), Command{
		SessionID: "sess-2", ClOrdID: "clord-2", Symbol: "AAPL",
		Side: orderv1.SideBuy, OrdType: orderv1.TypeMarket, Account: "acct-1",
		OrderQty: decimal.RequireFromString("10"), AssetClass: orderv1.AssetClassEquity,
		CorrelationID: "corr-2",
	})
	require.NoError(t, err)
	require.NotEmpty(t, received)
}
