package v1

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cancelstatev1 "github.com/oms-core/engine/internal/domain/cancelstate/v1"
)

// Order is the write-side aggregate for a single order. All monetary and
// quantity fields use shopspring/decimal (spec §3: floating point is
// forbidden for these fields). Mutators modify the receiver in place under
// mu and return only an error; the optimistic-concurrency contract is
// enforced at the store boundary instead, via the persisted txNr compared
// against the expected value on save (see ports.OrderRepository.SaveOrderTx
// and ConcurrentModificationError), not by threading a new value through
// every call.
type Order struct {
	mu sync.Mutex

	// Identity
	orderID      string // business-unique string id
	seq          int64  // internal sequence-assigned numeric key
	sessionID    string
	clOrdID      string
	parentOrderID string
	rootOrderID   string

	// Classification
	symbol     string
	side       Side
	ordType    Type
	account    string
	assetClass AssetClass
	// extension carries asset-class-specific fields (e.g. FX settlement
	// date) without an inheritance hierarchy (DESIGN NOTES §9).
	extension map[string]any

	// Quantities (scale 4)
	orderQty decimal.Decimal
	cumQty   decimal.Decimal
	placeQty decimal.Decimal
	allocQty decimal.Decimal
	// cashOrderQty is carried per the Open Question in spec §9; see
	// DESIGN.md "Open Question Decisions" for the provisional policy.
	cashOrderQty decimal.NullDecimal

	// Pricing (scale 6)
	price  decimal.NullDecimal
	stopPx decimal.NullDecimal
	avgPx  decimal.Decimal

	// Lifecycle
	state       State
	cancelState cancelstatev1.State
	txNr        int64

	createdAt time.Time
	updatedAt time.Time

	domainEvents []Event
}

// quantityScale and priceScale are the fixed-precision scales mandated by
// spec §3.
const (
	quantityScale = 4
	priceScale    = 6
)

// New constructs a brand-new Order in State "" (absent), ready for the
// CREATE pipeline's StateTransition task to move it into StateNew. orderID,
// seq and root linkage are set later through SetIdentity, and txNr by the
// write store on persist; none of them are assigned here.
func New(sessionID, clOrdID, symbol string, side Side, ordType Type, account string, orderQty decimal.Decimal, assetClass AssetClass) *Order {
	now := timeNow()
	return &Order{
		sessionID:  sessionID,
		clOrdID:    clOrdID,
		symbol:     symbol,
		side:       side,
		ordType:    ordType,
		account:    account,
		assetClass: assetClass,
		extension:  make(map[string]any),
		orderQty:   orderQty.Round(quantityScale),
		cumQty:     decimal.Zero,
		placeQty:   decimal.Zero,
		allocQty:   decimal.Zero,
		avgPx:      decimal.Zero,
		state:      "",
		cancelState: cancelstatev1.None,
		createdAt:  now,
		updatedAt:  now,
	}
}

// timeNow is a seam so tests can avoid wall-clock nondeterminism if needed.
var timeNow = time.Now

// SetPrice sets the limit price (required for LIMIT/STOP_LIMIT).
func (o *Order) SetPrice(p decimal.Decimal) {
	o.price = decimal.NewNullDecimal(p.Round(priceScale))
}

// SetStopPx sets the stop price (required for STOP/STOP_LIMIT).
func (o *Order) SetStopPx(p decimal.Decimal) {
	o.stopPx = decimal.NewNullDecimal(p.Round(priceScale))
}

// SetExtension stores an asset-class-specific field on the order.
func (o *Order) SetExtension(key string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.extension[key] = value
}

// Extension reads an asset-class-specific field.
func (o *Order) Extension(key string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.extension[key]
	return v, ok
}

// ExtensionMap returns a copy of every asset-class-specific field, for
// persistence as a JSON column.
func (o *Order) ExtensionMap() map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]any, len(o.extension))
	for k, v := range o.extension {
		out[k] = v
	}
	return out
}

// Accessors. All return copies/value types; Order is never shared across
// goroutines per spec §5. Some of these take the mutex for consistency with
// the mutators below; the others read the field directly.

func (o *Order) OrderID() string        { o.mu.Lock(); defer o.mu.Unlock(); return o.orderID }
func (o *Order) Seq() int64             { o.mu.Lock(); defer o.mu.Unlock(); return o.seq }
func (o *Order) SessionID() string      { return o.sessionID }
func (o *Order) ClOrdID() string        { return o.clOrdID }
func (o *Order) ParentOrderID() string  { return o.parentOrderID }
func (o *Order) RootOrderID() string    { o.mu.Lock(); defer o.mu.Unlock(); return o.rootOrderID }
func (o *Order) Symbol() string         { return o.symbol }
func (o *Order) Side() Side             { return o.side }
func (o *Order) OrdType() Type          { return o.ordType }
func (o *Order) Account() string        { return o.account }
func (o *Order) AssetClass() AssetClass { return o.assetClass }

func (o *Order) OrderQty() decimal.Decimal { return o.orderQty }
func (o *Order) CumQty() decimal.Decimal   { o.mu.Lock(); defer o.mu.Unlock(); return o.cumQty }
func (o *Order) PlaceQty() decimal.Decimal { o.mu.Lock(); defer o.mu.Unlock(); return o.placeQty }
func (o *Order) AllocQty() decimal.Decimal { o.mu.Lock(); defer o.mu.Unlock(); return o.allocQty }
func (o *Order) CashOrderQty() (decimal.Decimal, bool) {
	return o.cashOrderQty.Decimal, o.cashOrderQty.Valid
}
func (o *Order) LeavesQty() decimal.Decimal {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.orderQty.Sub(o.cumQty)
}
func (o *Order) AvgPx() decimal.Decimal { o.mu.Lock(); defer o.mu.Unlock(); return o.avgPx }

func (o *Order) Price() (decimal.Decimal, bool)  { return o.price.Decimal, o.price.Valid }
func (o *Order) StopPx() (decimal.Decimal, bool) { return o.stopPx.Decimal, o.stopPx.Valid }

func (o *Order) State() State { o.mu.Lock(); defer o.mu.Unlock(); return o.state }
func (o *Order) CancelState() cancelstatev1.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelState
}
func (o *Order) TxNr() int64 { o.mu.Lock(); defer o.mu.Unlock(); return o.txNr }

func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { o.mu.Lock(); defer o.mu.Unlock(); return o.updatedAt }

// SetTxNr is called by the write store after a successful insert/update to
// advance the in-memory optimistic-concurrency counter to match the row.
func (o *Order) SetTxNr(txNr int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.txNr = txNr
}

// SetIdentity records the business orderId, internal sequence and
// root/parent linkage. On CREATE the pipeline's create task calls it (with a
// new orderId and seq 0) before the order is first persisted.
func (o *Order) SetIdentity(orderID string, seq int64, parentOrderID, rootOrderID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.orderID = orderID
	o.seq = seq
	o.parentOrderID = parentOrderID
	if rootOrderID == "" {
		rootOrderID = orderID
	}
	o.rootOrderID = rootOrderID
}

// SetPersisted is called by the write store when hydrating an Order from a
// database row (Load). It bypasses the FSM/invariant checks the command
// pipelines enforce on mutation, since persisted rows are already valid.
func SetPersisted(
	orderID string,
	seq int64,
	sessionID, clOrdID, parentOrderID, rootOrderID, symbol string,
	side Side, ordType Type, account string, assetClass AssetClass,
	orderQty, cumQty, placeQty, allocQty, avgPx decimal.Decimal,
	price, stopPx decimal.NullDecimal,
	state State, cancelState cancelstatev1.State, txNr int64,
	createdAt, updatedAt time.Time,
	extension map[string]any,
) *Order {
	if extension == nil {
		extension = make(map[string]any)
	}
	if rootOrderID == "" {
		rootOrderID = orderID
	}
	return &Order{
		orderID: orderID, seq: seq,
		sessionID: sessionID, clOrdID: clOrdID,
		parentOrderID: parentOrderID, rootOrderID: rootOrderID,
		symbol: symbol, side: side, ordType: ordType, account: account, assetClass: assetClass,
		extension: extension,
		orderQty:  orderQty, cumQty: cumQty, placeQty: placeQty, allocQty: allocQty, avgPx: avgPx,
		price: price, stopPx: stopPx,
		state: state, cancelState: cancelState, txNr: txNr,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// NewOrderID is a seam for tests; production wiring assigns uuid.New().
var NewOrderID = func() string { return uuid.New().String() }
