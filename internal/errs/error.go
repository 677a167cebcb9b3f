package errs

import (
	"errors"
	"fmt"
)

// Problem is the structured envelope every command processor error carries,
// independent of whatever transport (if any) eventually serializes it.
type Problem struct {
	Kind          Kind
	Code          string
	Message       string
	CorrelationID string
	Extensions    map[string]any
}

// Error wraps a Problem so it satisfies the error interface and supports
// errors.Is/As via Unwrap of the wrapped cause.
type Error struct {
	Problem Problem
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Problem.Kind, e.Problem.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Problem.Kind, e.Problem.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with no wrapped cause.
func New(kind Kind, code, message, correlationID string) *Error {
	return &Error{Problem: Problem{Kind: kind, Code: code, Message: message, CorrelationID: correlationID}}
}

// Wrap builds an *Error of the given kind around an existing cause.
func Wrap(kind Kind, code, message, correlationID string, cause error) *Error {
	return &Error{Problem: Problem{Kind: kind, Code: code, Message: message, CorrelationID: correlationID}, Cause: cause}
}

// WithExtension attaches an extension field and returns the same *Error for
// chaining at the call site.
func (e *Error) WithExtension(key string, value any) *Error {
	if e.Problem.Extensions == nil {
		e.Problem.Extensions = make(map[string]any)
	}
	e.Problem.Extensions[key] = value
	return e
}

// Is reports whether target is an *Error of the same Kind, so callers can
// do errors.Is(err, errs.New(errs.KindConflict, "", "", "")) style checks,
// matching errors.Is's documented sentinel-comparison contract.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Problem.Kind == t.Problem.Kind
}

// KindOf extracts the Kind from err if it is (or wraps) an *errs.Error,
// defaulting to KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Problem.Kind
	}
	return KindInternal
}
