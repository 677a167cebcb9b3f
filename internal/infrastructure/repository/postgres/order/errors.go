package postgres

import "errors"

// ErrTransactionRequired is returned when a Store method is called without
// a transaction in context (use uow.PostgresUoW.Begin first).
var ErrTransactionRequired = errors.New("order store: transaction required: use UnitOfWork.Begin()")

// ConcurrentModificationError is returned when the conditional UPDATE on
// tx_nr affects zero rows — another writer committed first (spec §4.5,
// optimistic concurrency).
type ConcurrentModificationError struct {
	OrderID  string
	Expected int64
}

func (e *ConcurrentModificationError) Error() string {
	return "order store: concurrent modification: order " + e.OrderID + " is no longer at txNr"
}
