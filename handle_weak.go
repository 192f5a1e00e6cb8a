package slotpool

// WeakHandle observes a slot without owning a share of it: it neither
// contributes to the strong count nor prevents the slot's release. It can
// be upgraded back to a SharedHandle as long as at least one strong
// reference is still live.
type WeakHandle[T any] struct {
	ctrl *sharedControl[T]
}

// Upgrade attempts to obtain a SharedHandle for the observed slot. It
// succeeds iff the strong count is greater than zero at the moment of the
// attempt; the check-and-increment is a single CAS loop so upgrade cannot
// observe a strong count of zero and still resurrect a handle to a slot
// that has already been (or is concurrently being) returned to the pool.
func (w *WeakHandle[T]) Upgrade() (*SharedHandle[T], bool) {
	for {
		current := w.ctrl.strong.Load()
		if current == 0 {
			return nil, false
		}
		if w.ctrl.strong.CompareAndSwap(current, current+1) {
			return &SharedHandle[T]{ctrl: w.ctrl}, true
		}
	}
}

// StrongCount returns the observed slot's current strong count.
func (w *WeakHandle[T]) StrongCount() int64 { return w.ctrl.strong.Load() }

// WeakCount returns the number of live WeakHandle references to this
// slot's control record, including w itself.
func (w *WeakHandle[T]) WeakCount() int64 { return w.ctrl.weak.Load() }

// Clone returns a new WeakHandle observing the same slot, incrementing the
// weak count.
func (w *WeakHandle[T]) Clone() *WeakHandle[T] {
	w.ctrl.weak.Add(1)
	return &WeakHandle[T]{ctrl: w.ctrl}
}

// Release decrements the weak count. Weak count reaching zero has no
// effect on the slot; it only bounds the lifetime of the control record
// itself, which Go's garbage collector reclaims once unreferenced.
func (w *WeakHandle[T]) Release() {
	w.ctrl.weak.Add(-1)
}
