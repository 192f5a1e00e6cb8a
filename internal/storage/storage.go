// Package storage implements the slot-addressable backing stores behind a
// pool: where element values actually live in memory. Implementations must
// guarantee that a pointer returned by At(index) stays valid for the
// lifetime of the storage value, even after a later Grow call — this is
// what lets handles hold a raw *T across a pool growth event.
package storage

// Storage addresses T values by a flat slot index.
type Storage[T any] interface {
	// At returns a pointer to the slot at index. index must be less than
	// Capacity(). The returned pointer remains valid for the lifetime of
	// the Storage value, including across subsequent Grow calls.
	At(index int) *T

	// Grow appends additional new, zero-valued slots, indexed starting
	// at the current Capacity(). It never reallocates or moves existing
	// slots.
	Grow(additional int)

	// Capacity returns the total number of addressable slots.
	Capacity() int
}
