// Package validation implements the composable predicate rule engine: pure
// field/quantity/price/asset-class checks over a typed subject, composed
// with AND/OR/NOT, aggregated by an Engine.
package validation

// Result is the outcome of running a Rule: either valid, or a list of
// human-readable error messages (never both).
type Result struct {
	Valid  bool
	Errors []string
}

// Ok is the canonical successful Result.
func Ok() Result {
	return Result{Valid: true}
}

// Fail builds a failing Result from one or more messages.
func Fail(messages ...string) Result {
	return Result{Valid: false, Errors: messages}
}

// Rule is a pure function from a subject to a Result. Rules never mutate T.
type Rule[T any] func(T) Result

// And composes r with other: short-circuits on r's first failure and
// returns r's errors without evaluating other.
func (r Rule[T]) And(other Rule[T]) Rule[T] {
	return func(t T) Result {
		res := r(t)
		if !res.Valid {
			return res
		}
		return other(t)
	}
}

// Or returns a rule that succeeds if either r or other passes. If both fail,
// the combined errors from both are returned.
func (r Rule[T]) Or(other Rule[T]) Rule[T] {
	return func(t T) Result {
		res := r(t)
		if res.Valid {
			return res
		}
		otherRes := other(t)
		if otherRes.Valid {
			return otherRes
		}
		return Fail(append(append([]string{}, res.Errors...), otherRes.Errors...)...)
	}
}

// Negate inverts validity. A negated rule that previously failed succeeds
// with no errors; a negated rule that previously succeeded fails with a
// generic message, since the original carried no error text to invert.
func (r Rule[T]) Negate() Rule[T] {
	return func(t T) Result {
		res := r(t)
		if res.Valid {
			return Fail("negated rule condition was satisfied")
		}
		return Ok()
	}
}
