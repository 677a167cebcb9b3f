package validation

import "strings"

// Error surfaces a failed Result upward as a domain error. Non-fatal to the
// process: callers map it to the ValidationFailure error kind.
type Error struct {
	Errors []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NewError wraps a failing Result into an *Error, or nil if the Result was
// valid (so callers can do `if err := validation.NewError(res); err != nil`).
func NewError(res Result) error {
	if res.Valid {
		return nil
	}
	return &Error{Errors: res.Errors}
}
