package slotpool

import "sync/atomic"

// sharedControl is the heap-allocated control record backing a family of
// SharedHandle/WeakHandle values bound to one slot. Go has no destructors,
// so ownership is tracked with atomic counters rather than a Rc<T>/Weak<T>
// pair, and the slot is returned exactly once, the moment strongCount
// transitions to zero under Release.
type sharedControl[T any] struct {
	pool   backend[T]
	index  int
	strong atomic.Int64
	weak   atomic.Int64
}

// SharedHandle is a reference-counted handle to a pool-allocated slot.
// Cloning it increments the shared strong count; releasing it decrements
// that count, and the slot is returned to the pool exactly once, when the
// count reaches zero.
type SharedHandle[T any] struct {
	ctrl *sharedControl[T]
}

func newSharedHandle[T any](pool backend[T], index int) *SharedHandle[T] {
	ctrl := &sharedControl[T]{pool: pool, index: index}
	ctrl.strong.Store(1)
	return &SharedHandle[T]{ctrl: ctrl}
}

// Get returns a pointer to the shared slot. The pool's element-type
// contract treats shared access as read-only; mutation requires the
// element type to provide its own interior mutability.
func (h *SharedHandle[T]) Get() *T {
	return h.ctrl.pool.getSlot(h.ctrl.index)
}

// Index returns the handle's slot index.
func (h *SharedHandle[T]) Index() int { return h.ctrl.index }

// StrongCount returns the current number of live SharedHandle references
// sharing this slot.
func (h *SharedHandle[T]) StrongCount() int64 { return h.ctrl.strong.Load() }

// WeakCount returns the current number of live WeakHandle references to
// this slot's control record.
func (h *SharedHandle[T]) WeakCount() int64 { return h.ctrl.weak.Load() }

// Clone returns a new SharedHandle sharing this one's slot, incrementing
// the strong count.
func (h *SharedHandle[T]) Clone() *SharedHandle[T] {
	h.ctrl.strong.Add(1)
	return &SharedHandle[T]{ctrl: h.ctrl}
}

// Downgrade returns a WeakHandle observing this handle's slot without
// contributing to the strong count.
func (h *SharedHandle[T]) Downgrade() *WeakHandle[T] {
	h.ctrl.weak.Add(1)
	return &WeakHandle[T]{ctrl: h.ctrl}
}

// Release decrements the strong count. When it transitions from 1 to 0,
// the slot is returned to the pool; any outstanding weak handles will
// subsequently fail to upgrade.
func (h *SharedHandle[T]) Release() {
	if h.ctrl.strong.Add(-1) == 0 {
		h.ctrl.pool.returnSlot(h.ctrl.index)
	}
}
