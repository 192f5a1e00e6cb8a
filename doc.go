// Package slotpool implements a typed object-pool allocator: a slab of
// pre-allocated, type-homogeneous storage with O(1) claim/release and
// smart handles that return their slot to the pool when Release is called.
//
// The pool amortizes allocation cost across many short-lived objects of the
// same type, improves cache locality via contiguous storage, and avoids
// long-term heap fragmentation. It does not replace a general-purpose
// allocator, does not support heterogeneous slabs, and never blocks:
// allocation either succeeds immediately or fails fast with a typed error.
package slotpool
