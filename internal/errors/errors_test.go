package errors_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	qerrors "qfbv/internal/errors"
)

func TestCodeString(t *testing.T) {
	require.Equal(t, "TYPE_ERROR", qerrors.TypeError.String())
	require.Equal(t, "UNKNOWN_ERROR", qerrors.Code(12345).String())
}

func TestIsTrivialResult(t *testing.T) {
	require.True(t, qerrors.TriviallyUnsat.IsTrivialResult())
	require.False(t, qerrors.InternalError.IsTrivialResult())
}

func TestIsInternal(t *testing.T) {
	require.True(t, qerrors.InternalError.IsInternal())
	require.True(t, qerrors.TypeError.IsInternal())
	require.False(t, qerrors.LogicNotSupported.IsInternal())
}

func TestNewAndCodeOf(t *testing.T) {
	err := qerrors.New(qerrors.ErrBadBitwidth, "width 1<<21 exceeds limit")
	require.Equal(t, qerrors.ErrBadBitwidth, qerrors.CodeOf(err))
	require.Contains(t, err.Error(), "BAD_BITWIDTH")
}

func TestWrapPreservesCode(t *testing.T) {
	cause := qerrors.New(qerrors.InternalError, "boom")
	wrapped := qerrors.Wrap(qerrors.BVSolverException, cause, "lowering failed")
	require.Equal(t, qerrors.BVSolverException, qerrors.CodeOf(wrapped))
}

func TestCodeOfNonSolverError(t *testing.T) {
	require.Equal(t, qerrors.InternalError, qerrors.CodeOf(assertError{}))
}

type assertError struct{}

func (assertError) Error() string { return "plain error" }
