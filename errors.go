package slotpool

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an [Error], so callers can branch on it
// via [errors.Is] without string-matching the message.
type Kind int

const (
	// KindPoolExhausted means a claim failed and growth is not possible
	// (either the pool is fixed-size, or the growth rule returned 0).
	KindPoolExhausted Kind = iota + 1
	// KindMaxCapacityExceeded means a growth step would exceed the
	// configured maximum capacity.
	KindMaxCapacityExceeded
	// KindInvalidConfiguration means a build-time validation failed.
	KindInvalidConfiguration
	// KindInvalidAlignment means the configured alignment is not a power
	// of two.
	KindInvalidAlignment
	// KindAllocationFailed means the underlying system storage
	// acquisition failed.
	KindAllocationFailed
	// KindInvalidHandle is reserved for instrumentation/debug modes; it
	// is not expected to surface from correct programs.
	KindInvalidHandle
	// KindDoubleFree is reserved for instrumentation/debug modes; it is
	// not expected to surface from correct programs.
	KindDoubleFree
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindPoolExhausted:
		return "PoolExhausted"
	case KindMaxCapacityExceeded:
		return "MaxCapacityExceeded"
	case KindInvalidConfiguration:
		return "InvalidConfiguration"
	case KindInvalidAlignment:
		return "InvalidAlignment"
	case KindAllocationFailed:
		return "AllocationFailed"
	case KindInvalidHandle:
		return "InvalidHandle"
	case KindDoubleFree:
		return "DoubleFree"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned from slotpool's constructors and
// allocation operations. It carries enough structured context (current
// capacity, allocated count, requested growth, max) for diagnostic logging
// without round-tripping to the pool for more information.
type Error struct {
	Kind Kind

	// Capacity/Allocated are populated for KindPoolExhausted.
	Capacity  int
	Allocated int

	// Current/Requested/Max are populated for KindMaxCapacityExceeded.
	Current   int
	Requested int
	Max       int

	// Alignment is populated for KindInvalidAlignment.
	Alignment int

	// Reason is populated for KindInvalidConfiguration.
	Reason string

	// Cause, if set, is returned from Unwrap.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindPoolExhausted:
		return fmt.Sprintf("slotpool: exhausted: allocated %d/%d slots", e.Allocated, e.Capacity)
	case KindMaxCapacityExceeded:
		return fmt.Sprintf("slotpool: max capacity exceeded: current=%d requested=%d max=%d", e.Current, e.Requested, e.Max)
	case KindInvalidConfiguration:
		return fmt.Sprintf("slotpool: invalid configuration: %s", e.Reason)
	case KindInvalidAlignment:
		return fmt.Sprintf("slotpool: invalid alignment %d: must be a power of two", e.Alignment)
	case KindAllocationFailed:
		return "slotpool: underlying storage allocation failed"
	case KindInvalidHandle:
		return "slotpool: invalid or expired handle"
	case KindDoubleFree:
		return "slotpool: double release detected"
	default:
		return "slotpool: error"
	}
}

// Unwrap returns the wrapped cause, if any, enabling [errors.Is] and
// [errors.As] to see through it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, or one of the
// Kind sentinel values below.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	switch target {
	case ErrPoolExhausted:
		return e.Kind == KindPoolExhausted
	case ErrMaxCapacityExceeded:
		return e.Kind == KindMaxCapacityExceeded
	case ErrInvalidConfiguration:
		return e.Kind == KindInvalidConfiguration
	case ErrInvalidAlignment:
		return e.Kind == KindInvalidAlignment
	case ErrAllocationFailed:
		return e.Kind == KindAllocationFailed
	case ErrInvalidHandle:
		return e.Kind == KindInvalidHandle
	case ErrDoubleFree:
		return e.Kind == KindDoubleFree
	}
	return false
}

// Sentinel errors for use with errors.Is(err, slotpool.ErrXxx). They carry
// no context themselves; match against the returned *Error for fields.
var (
	ErrPoolExhausted        = &Error{Kind: KindPoolExhausted}
	ErrMaxCapacityExceeded  = &Error{Kind: KindMaxCapacityExceeded}
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration}
	ErrInvalidAlignment     = &Error{Kind: KindInvalidAlignment}
	ErrAllocationFailed     = &Error{Kind: KindAllocationFailed}
	ErrInvalidHandle        = &Error{Kind: KindInvalidHandle}
	ErrDoubleFree           = &Error{Kind: KindDoubleFree}
)

func errPoolExhausted(capacity, allocated int) error {
	return &Error{Kind: KindPoolExhausted, Capacity: capacity, Allocated: allocated}
}

func errMaxCapacityExceeded(current, requested, max int) error {
	return &Error{Kind: KindMaxCapacityExceeded, Current: current, Requested: requested, Max: max}
}

func errInvalidConfiguration(reason string) error {
	return &Error{Kind: KindInvalidConfiguration, Reason: reason}
}

func errInvalidAlignment(alignment int) error {
	return &Error{Kind: KindInvalidAlignment, Alignment: alignment}
}
