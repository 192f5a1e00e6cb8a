package slotpool

import (
	"sync"
	"sync/atomic"
)

// SharedPool is the mutex-guarded concurrency dialect: it wraps a
// GrowingPool so it can be safely shared across goroutines. A
// single critical section covers claiming the slot index and caching its
// address; subsequent handle dereferences do not re-enter the mutex,
// since the slot's address is stable and no other goroutine can claim an
// index that is currently live. Release re-enters the mutex to run the
// release hook and return the index to the tracker.
//
// Grounded on the teacher's own lock-once-cache-pointer pattern in
// eventloop's global logger accessor, generalized here from "cache a
// value read under a lock" to "cache a pointer obtained under a lock and
// let all further reads/writes through it bypass the lock entirely".
type SharedPool[T any] struct {
	mu    sync.Mutex
	inner *GrowingPool[T]
}

// NewSharedPool returns a SharedPool with the given initial capacity and
// growth rule, safe to share across goroutines via a single *SharedPool
// value (SharedPool methods are already safe for concurrent use; no
// further wrapping is needed).
func NewSharedPool[T any](initialCapacity int, growth GrowthRule) (*SharedPool[T], error) {
	inner, err := NewGrowingPool[T](initialCapacity, growth)
	if err != nil {
		return nil, err
	}
	return &SharedPool[T]{inner: inner}, nil
}

// NewSharedPoolWith returns a SharedPool built from an explicit Config.
func NewSharedPoolWith[T any](cfg Config[T]) (*SharedPool[T], error) {
	inner, err := NewGrowingPoolWith(cfg)
	if err != nil {
		return nil, err
	}
	return &SharedPool[T]{inner: inner}, nil
}

// ThreadSafeHandle is the handle returned by SharedPool.Allocate. Its
// slot pointer is cached at allocation time under the pool's mutex;
// [ThreadSafeHandle.Get] reads/writes through that cached pointer without
// acquiring the mutex again.
type ThreadSafeHandle[T any] struct {
	pool  *SharedPool[T]
	index int
	ptr   *T
	state atomic.Uint32
}

// Get returns the handle's cached slot pointer. Safe to call without
// holding any lock: no other goroutine can claim this index while the
// handle is live.
func (h *ThreadSafeHandle[T]) Get() *T { return h.ptr }

// Index returns the handle's slot index.
func (h *ThreadSafeHandle[T]) Index() int { return h.index }

// Release returns the slot to the pool, re-entering the pool's mutex.
// Panics on a second call for the same handle.
func (h *ThreadSafeHandle[T]) Release() {
	if !h.state.CompareAndSwap(handleValid, handleReleased) {
		panic("slotpool: handle released more than once")
	}
	h.pool.returnSlot(h.index)
}

func (p *SharedPool[T]) returnSlot(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inner.returnSlot(index)
}

// Allocate claims a slot (growing the underlying pool first if needed)
// and returns a ThreadSafeHandle caching that slot's address.
func (p *SharedPool[T]) Allocate(value T) (*ThreadSafeHandle[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	index, err := p.inner.claim()
	if err != nil {
		return nil, err
	}
	slot := p.inner.store.At(index)
	*slot = value
	callAcquire(slot)
	p.inner.stats.recordAllocation(p.inner.tr.Capacity() - p.inner.tr.Available())
	p.inner.log.Debug("slotpool: allocated index ", index)
	return &ThreadSafeHandle[T]{pool: p, index: index, ptr: slot}, nil
}

// TryAllocate is the non-error variant of Allocate.
func (p *SharedPool[T]) TryAllocate(value T) (*ThreadSafeHandle[T], bool) {
	h, err := p.Allocate(value)
	return h, err == nil
}

// Capacity returns the pool's current capacity, a snapshot under the
// mutex: it may be stale immediately after the call returns if another
// goroutine grows the pool concurrently.
func (p *SharedPool[T]) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Capacity()
}

// Available returns the number of slots free, a snapshot under the mutex.
func (p *SharedPool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Available()
}

// Allocated returns the number of slots live, a snapshot under the mutex.
func (p *SharedPool[T]) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Allocated()
}

// IsFull reports whether the pool currently has no available slots and
// cannot grow.
func (p *SharedPool[T]) IsFull() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.IsFull()
}

// IsEmpty reports whether every slot is currently available.
func (p *SharedPool[T]) IsEmpty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.IsEmpty()
}

// CanGrow reports the underlying pool's [GrowingPool.CanGrow], a snapshot
// under the mutex.
func (p *SharedPool[T]) CanGrow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.CanGrow()
}

// Statistics returns a snapshot of the pool's allocation counters.
func (p *SharedPool[T]) Statistics() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner.Statistics()
}

// ResetStatistics zeroes the pool's allocation counters. Idempotent.
func (p *SharedPool[T]) ResetStatistics() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inner.ResetStatistics()
}
