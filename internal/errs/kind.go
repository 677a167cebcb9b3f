// Package errs is the shared error taxonomy every command package returns
// through: a closed Kind enum, a Problem envelope carrying a correlation id
// and extension fields, and an *Error wrapper compatible with errors.Is/As.
package errs

// Kind is the closed taxonomy of error categories a command processor can
// return (spec §4.8/§6.4).
type Kind string

const (
	// KindValidation means the inbound command failed C2 validation.
	KindValidation Kind = "VALIDATION"
	// KindInvalidTransition means the command would move an order across
	// an edge its state machine does not permit.
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	// KindNotFound means the target order/execution/quote does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict means an optimistic-concurrency (txNr) mismatch was hit;
	// callers may retry with backoff (spec §7).
	KindConflict Kind = "CONFLICT"
	// KindIdempotentReplay means the command was already processed under
	// the same (sessionId, clOrdId); the prior result is returned together
	// with an error of this Kind, which maps to a success status (200).
	KindIdempotentReplay Kind = "IDEMPOTENT_REPLAY"
	// KindDuplicate means a (sessionId, clOrdId) reuse was reported back to
	// the caller as an error instead of resolved as an idempotent replay.
	KindDuplicate Kind = "DUPLICATE"
	// KindDataIntegrity means a stored row violated a schema constraint the
	// application layer expected to hold (e.g. a foreign key or check
	// constraint breach surfaced by the database).
	KindDataIntegrity Kind = "DATA_INTEGRITY"
	// KindExternal means a downstream dependency (database, message bus)
	// failed in a way the caller cannot resolve by retrying the command
	// differently.
	KindExternal Kind = "EXTERNAL"
	// KindInternal is the catch-all for defects, never expected in normal
	// operation.
	KindInternal Kind = "INTERNAL"
)

// HTTPStatus is a pure mapping from Kind to the HTTP-equivalent status an
// (out-of-scope) transport layer would use; nothing in this module itself
// depends on net/http.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return 400
	case KindInvalidTransition:
		return 409
	case KindNotFound:
		return 404
	case KindConflict, KindDuplicate, KindDataIntegrity:
		return 409
	case KindIdempotentReplay:
		return 200
	case KindExternal:
		return 503
	case KindInternal:
		return 500
	default:
		return 500
	}
}
