package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oms-core/engine/internal/errs"
)

func TestError_IsMatchesByKind(t *testing.T) {
	a := errs.New(errs.KindConflict, "CONFLICT", "version mismatch", "corr-1")
	b := errs.New(errs.KindConflict, "CONFLICT", "different message", "corr-2")
	require.True(t, errors.Is(a, b))
}

func TestError_IsDoesNotMatchDifferentKind(t *testing.T) {
	a := errs.New(errs.KindConflict, "CONFLICT", "version mismatch", "corr-1")
	b := errs.New(errs.KindNotFound, "NOT_FOUND", "no such order", "corr-1")
	require.False(t, errors.Is(a, b))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying db error")
	wrapped := errs.Wrap(errs.KindExternal, "DB_ERROR", "write failed", "corr-1", cause)
	require.ErrorIs(t, wrapped, cause)
}

func TestKindOf_DefaultsToInternal(t *testing.T) {
	require.Equal(t, errs.KindInternal, errs.KindOf(errors.New("plain error")))
}

func TestKindOf_ExtractsFromWrapped(t *testing.T) {
	err := errs.New(errs.KindValidation, "BAD_INPUT", "missing symbol", "corr-1")
	require.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestKind_HTTPStatus(t *testing.T) {
	require.Equal(t, 409, errs.KindConflict.HTTPStatus())
	require.Equal(t, 404, errs.KindNotFound.HTTPStatus())
	require.Equal(t, 400, errs.KindValidation.HTTPStatus())
	require.Equal(t, 409, errs.KindInvalidTransition.HTTPStatus())
	require.Equal(t, 409, errs.KindDuplicate.HTTPStatus())
	require.Equal(t, 409, errs.KindDataIntegrity.HTTPStatus())
	require.Equal(t, 503, errs.KindExternal.HTTPStatus())
}
