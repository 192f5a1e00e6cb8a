package slotpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesSentinelByKind(t *testing.T) {
	err := errPoolExhausted(10, 10)
	require.True(t, errors.Is(err, ErrPoolExhausted))
	require.False(t, errors.Is(err, ErrMaxCapacityExceeded))
}

func TestError_IsMatchesWrappedCause(t *testing.T) {
	inner := errPoolExhausted(5, 5)
	wrapped := &Error{Kind: KindAllocationFailed, Cause: inner}

	require.True(t, errors.Is(wrapped, ErrAllocationFailed))
	require.True(t, errors.Is(wrapped, inner))
	require.True(t, errors.Is(wrapped, ErrPoolExhausted))
}

func TestError_FieldsArePopulated(t *testing.T) {
	err := errPoolExhausted(3, 3)
	var asErr *Error
	require.True(t, errors.As(err, &asErr))
	require.Equal(t, 3, asErr.Capacity)
	require.Equal(t, 3, asErr.Allocated)

	err = errMaxCapacityExceeded(8, 16, 8)
	require.True(t, errors.As(err, &asErr))
	require.Equal(t, 8, asErr.Current)
	require.Equal(t, 16, asErr.Requested)
	require.Equal(t, 8, asErr.Max)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "PoolExhausted", KindPoolExhausted.String())
	require.Equal(t, "Unknown", Kind(999).String())
}
