package storage

import "sort"

// Chunked is a pool's backing store as an append-only sequence of
// independently allocated chunks. Growing the pool appends a new chunk
// sized exactly to the growth amount; existing chunks are never resized or
// copied, so a *T obtained from At remains valid for the life of the
// Chunked value even after later Grow calls — appending a new header to
// the (separate) slice-of-chunks never touches an existing chunk's
// backing array.
//
// Index-to-chunk lookup uses a cached cumulative-size table and binary
// search, giving O(log n) lookup in the number of chunks (not slots).
type Chunked[T any] struct {
	chunks     [][]T
	boundaries []int // cumulative slot count after each chunk
}

var _ Storage[int] = (*Chunked[int])(nil)

// NewChunked returns a Chunked storage with a single initial chunk of
// capacity zero-valued slots.
func NewChunked[T any](capacity int) *Chunked[T] {
	return &Chunked[T]{
		chunks:     [][]T{make([]T, capacity)},
		boundaries: []int{capacity},
	}
}

func (c *Chunked[T]) At(index int) *T {
	chunkIdx, offset := c.locate(index)
	return &c.chunks[chunkIdx][offset]
}

// locate converts a flat slot index into (chunk index, offset within that
// chunk) using a binary search over cumulative chunk sizes.
func (c *Chunked[T]) locate(index int) (chunkIdx, offset int) {
	chunkIdx = sort.SearchInts(c.boundaries, index+1)
	if chunkIdx == 0 {
		return 0, index
	}
	return chunkIdx, index - c.boundaries[chunkIdx-1]
}

func (c *Chunked[T]) Grow(additional int) {
	if additional <= 0 {
		return
	}
	c.chunks = append(c.chunks, make([]T, additional))
	c.boundaries = append(c.boundaries, c.Capacity()+additional)
}

func (c *Chunked[T]) Capacity() int {
	if len(c.boundaries) == 0 {
		return 0
	}
	return c.boundaries[len(c.boundaries)-1]
}
