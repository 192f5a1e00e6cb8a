package slotpool

import (
	"github.com/hexpool/slotpool/internal/storage"
	"github.com/hexpool/slotpool/internal/tracker"
)

// Poolable is implemented by element types that want lifecycle callbacks.
// Both methods default to no-ops for types that don't implement Poolable;
// see callAcquire/callRelease.
type Poolable interface {
	OnAcquire()
	OnRelease()
}

// FixedPool is a pool with a capacity fixed at construction; it never
// grows. It defaults to a Stack tracker (O(1) claim/release); pass
// [WithTrackerKind] to use FreeList or Bitmap instead.
//
// FixedPool is the single-threaded cooperative dialect: it performs no
// locking of its own and must not be shared across goroutines. Use
// [NewSharedPool] to wrap a pool for cross-goroutine use.
type FixedPool[T any] struct {
	tr    tracker.Tracker
	store *storage.Fixed[T]
	cfg   Config[T]
	log   Logger
	stats poolStats
}

var _ backend[int] = (*FixedPool[int])(nil)

// NewFixedPool returns a FixedPool with the given capacity and default
// configuration (Stack tracker, natural alignment, lazy initialization).
func NewFixedPool[T any](capacity int) (*FixedPool[T], error) {
	cfg, err := NewConfig[T](capacity)
	if err != nil {
		return nil, err
	}
	return NewFixedPoolWith(cfg)
}

// NewFixedPoolWith returns a FixedPool built from an explicit Config.
// Config.MaxCapacity is ignored: a fixed pool has no growth path.
// Config.TrackerKind selects the tracker variant (default: Stack); a zero
// Config.DebugMode leaves the tracker unwrapped, a true one wraps it with
// [tracker.WithDoubleReleaseCheck].
func NewFixedPoolWith[T any](cfg Config[T]) (*FixedPool[T], error) {
	store := storage.NewFixed[T](cfg.InitialCapacity())
	if cfg.init.kind == InitEager || cfg.init.kind == InitCustom {
		for i := 0; i < cfg.InitialCapacity(); i++ {
			*store.At(i) = cfg.init.factory()
		}
	}
	p := &FixedPool[T]{
		tr:    newTracker(cfg.trackerKind, TrackerStack, cfg.InitialCapacity(), cfg.debugMode),
		store: store,
		cfg:   cfg,
		log:   getGlobalLogger(),
	}
	return p, nil
}

// Allocate claims a slot, installs value, runs the acquire hook, and
// returns an owned handle. Fails with a [KindPoolExhausted] [Error] if the
// pool is full.
func (p *FixedPool[T]) Allocate(value T) (*OwnedHandle[T], error) {
	index, err := p.claim()
	if err != nil {
		return nil, err
	}
	slot := p.store.At(index)
	*slot = value
	callAcquire(slot)
	p.stats.recordAllocation(p.tr.Capacity() - p.tr.Available())
	p.log.Debug("slotpool: allocated index ", index)
	return newOwnedHandle[T](p, index), nil
}

func (p *FixedPool[T]) claim() (int, error) {
	index, ok := p.tr.Claim()
	if !ok {
		p.stats.recordFailure()
		return 0, errPoolExhausted(p.tr.Capacity(), p.tr.Capacity()-p.tr.Available())
	}
	return index, nil
}

// TryAllocate is the non-error variant of Allocate: it returns ok=false
// instead of an error when the pool is full.
func (p *FixedPool[T]) TryAllocate(value T) (*OwnedHandle[T], bool) {
	h, err := p.Allocate(value)
	return h, err == nil
}

// AllocateBatch reserves len(values) slots atomically: either all values
// are installed and all handles returned, or none are and an error is
// returned without partially claiming the pool.
func (p *FixedPool[T]) AllocateBatch(values []T) ([]*OwnedHandle[T], error) {
	if len(values) > p.tr.Available() {
		p.stats.recordFailure()
		return nil, errPoolExhausted(p.tr.Capacity(), p.tr.Capacity()-p.tr.Available())
	}
	handles := make([]*OwnedHandle[T], 0, len(values))
	for _, v := range values {
		h, err := p.Allocate(v)
		if err != nil {
			// Unreachable given the availability check above: all slots
			// were already reserved by capacity, not individually raced.
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// AllocateShared claims a slot and returns a SharedHandle with strong
// count 1, instead of an OwnedHandle.
func (p *FixedPool[T]) AllocateShared(value T) (*SharedHandle[T], error) {
	index, err := p.claim()
	if err != nil {
		return nil, err
	}
	slot := p.store.At(index)
	*slot = value
	callAcquire(slot)
	p.stats.recordAllocation(p.tr.Capacity() - p.tr.Available())
	return newSharedHandle[T](p, index), nil
}

func (p *FixedPool[T]) getSlot(index int) *T {
	return p.store.At(index)
}

func (p *FixedPool[T]) returnSlot(index int) {
	slot := p.store.At(index)
	callRelease(slot)
	var zero T
	*slot = zero
	if p.cfg.init.kind == InitCustom {
		p.cfg.init.reset(slot)
	}
	p.tr.Release(index)
	p.stats.recordDeallocation(p.tr.Capacity() - p.tr.Available())
	p.log.Debug("slotpool: released index ", index)
}

// Capacity returns the pool's fixed capacity.
func (p *FixedPool[T]) Capacity() int { return p.tr.Capacity() }

// Available returns the number of slots currently free.
func (p *FixedPool[T]) Available() int { return p.tr.Available() }

// Allocated returns the number of slots currently live.
func (p *FixedPool[T]) Allocated() int { return p.tr.Capacity() - p.tr.Available() }

// IsFull reports whether the pool has no available slots.
func (p *FixedPool[T]) IsFull() bool { return tracker.IsFull(p.tr) }

// IsEmpty reports whether every slot in the pool is available.
func (p *FixedPool[T]) IsEmpty() bool { return tracker.IsEmpty(p.tr) }

// CanGrow always reports false for a fixed pool.
func (p *FixedPool[T]) CanGrow() bool { return false }

// Statistics returns a snapshot of this pool's allocation counters. See
// [Stats].
func (p *FixedPool[T]) Statistics() Stats { return p.stats.snapshot(p.tr.Capacity()) }

// ResetStatistics zeroes this pool's allocation counters. Idempotent.
func (p *FixedPool[T]) ResetStatistics() { p.stats.reset() }

// newTracker builds the tracker variant a pool constructor should use: kind
// if the caller named one, otherwise fallback, optionally wrapped with the
// shadow-bitmap double-release check.
func newTracker(kind, fallback TrackerKind, capacity int, debug bool) tracker.Tracker {
	if kind == TrackerDefault {
		kind = fallback
	}
	var tr tracker.Tracker
	switch kind {
	case TrackerBitmap:
		tr = tracker.NewBitmap(capacity)
	case TrackerFreeList:
		tr = tracker.NewFreeList(capacity)
	default:
		tr = tracker.NewStack(capacity)
	}
	if debug {
		tr = tracker.WithDoubleReleaseCheck(tr)
	}
	return tr
}

func callAcquire[T any](slot *T) {
	if v, ok := any(slot).(Poolable); ok {
		v.OnAcquire()
	}
}

func callRelease[T any](slot *T) {
	if v, ok := any(slot).(Poolable); ok {
		v.OnRelease()
	}
}
