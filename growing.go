package slotpool

import (
	"github.com/hexpool/slotpool/internal/storage"
	"github.com/hexpool/slotpool/internal/tracker"
)

// GrowingPool is a pool that transparently appends capacity when claim
// fails, according to its Config's growth rule, up to an optional maximum
// capacity. Existing slot addresses never change across a growth step: new
// capacity is always a newly appended chunk (see internal/storage.Chunked).
//
// Like FixedPool, GrowingPool is the single-threaded cooperative dialect
// and performs no locking of its own; use [NewSharedPool] to share one
// across goroutines.
type GrowingPool[T any] struct {
	tr    tracker.Tracker
	store *storage.Chunked[T]
	cfg   Config[T]
	log   Logger
	stats poolStats
}

var _ backend[int] = (*GrowingPool[int])(nil)

// NewGrowingPool returns a GrowingPool with the given initial capacity,
// growth rule, and default configuration otherwise.
func NewGrowingPool[T any](initialCapacity int, growth GrowthRule) (*GrowingPool[T], error) {
	cfg, err := NewConfig[T](initialCapacity, WithGrowthRule[T](growth))
	if err != nil {
		return nil, err
	}
	return NewGrowingPoolWith(cfg)
}

// NewGrowingPoolWith returns a GrowingPool built from an explicit Config.
// Config.TrackerKind selects the tracker variant (default: FreeList); a
// true Config.DebugMode wraps it with [tracker.WithDoubleReleaseCheck].
func NewGrowingPoolWith[T any](cfg Config[T]) (*GrowingPool[T], error) {
	store := storage.NewChunked[T](cfg.InitialCapacity())
	if cfg.init.kind == InitEager || cfg.init.kind == InitCustom {
		for i := 0; i < cfg.InitialCapacity(); i++ {
			*store.At(i) = cfg.init.factory()
		}
	}
	p := &GrowingPool[T]{
		tr:    newTracker(cfg.trackerKind, TrackerFreeList, cfg.InitialCapacity(), cfg.debugMode),
		store: store,
		cfg:   cfg,
		log:   getGlobalLogger(),
	}
	return p, nil
}

// grow appends a new chunk per the configured growth rule. Returns the
// pool-exhausted/max-capacity error a subsequent claim should surface, or
// nil if growth succeeded.
func (p *GrowingPool[T]) grow() error {
	current := p.tr.Capacity()
	delta := p.cfg.growth.compute(current)
	if delta <= 0 {
		return errPoolExhausted(current, current-p.tr.Available())
	}
	if max, ok := p.cfg.MaxCapacity(); ok {
		if requested := current + delta; requested > max {
			return errMaxCapacityExceeded(current, requested, max)
		}
	}
	p.store.Grow(delta)
	if p.cfg.init.kind == InitEager || p.cfg.init.kind == InitCustom {
		for i := current; i < current+delta; i++ {
			*p.store.At(i) = p.cfg.init.factory()
		}
	}
	p.tr.Extend(delta)
	p.stats.recordGrowth(p.tr.Capacity())
	p.log.Info("slotpool: grew pool to capacity ", p.tr.Capacity())
	return nil
}

// claim returns a free slot index, growing the pool first if necessary.
func (p *GrowingPool[T]) claim() (int, error) {
	index, ok := p.tr.Claim()
	if ok {
		return index, nil
	}
	if err := p.grow(); err != nil {
		p.stats.recordFailure()
		return 0, err
	}
	index, ok = p.tr.Claim()
	if !ok {
		// Unreachable: grow() either errors or appends at least one free
		// slot.
		p.stats.recordFailure()
		return 0, errPoolExhausted(p.tr.Capacity(), p.tr.Capacity())
	}
	return index, nil
}

// Allocate claims a slot, growing the pool first if it is currently full
// and growth is possible. Fails with [KindPoolExhausted] if growth cannot
// produce a free slot, or [KindMaxCapacityExceeded] if growth would exceed
// the configured maximum.
func (p *GrowingPool[T]) Allocate(value T) (*OwnedHandle[T], error) {
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

// TryAllocate is the non-error variant of Allocate.
func (p *GrowingPool[T]) TryAllocate(value T) (*OwnedHandle[T], bool) {
	h, err := p.Allocate(value)
	return h, err == nil
}

// AllocateShared claims a slot, growing if necessary, and returns a
// SharedHandle with strong count 1.
func (p *GrowingPool[T]) AllocateShared(value T) (*SharedHandle[T], error) {
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

// AllocateBatch allocates len(values) slots, growing as many times as
// necessary. Unlike FixedPool.AllocateBatch this does not reserve
// atomically up front (growth may need to happen partway through); if an
// element fails, previously allocated handles in the batch are released
// and the error is returned.
func (p *GrowingPool[T]) AllocateBatch(values []T) ([]*OwnedHandle[T], error) {
	handles := make([]*OwnedHandle[T], 0, len(values))
	for _, v := range values {
		h, err := p.Allocate(v)
		if err != nil {
			for _, allocated := range handles {
				allocated.Release()
			}
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func (p *GrowingPool[T]) getSlot(index int) *T {
	return p.store.At(index)
}

func (p *GrowingPool[T]) returnSlot(index int) {
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

// Capacity returns the pool's current capacity.
func (p *GrowingPool[T]) Capacity() int { return p.tr.Capacity() }

// Available returns the number of slots currently free.
func (p *GrowingPool[T]) Available() int { return p.tr.Available() }

// Allocated returns the number of slots currently live.
func (p *GrowingPool[T]) Allocated() int { return p.tr.Capacity() - p.tr.Available() }

// IsFull reports whether the pool has no available slots and cannot grow.
func (p *GrowingPool[T]) IsFull() bool { return tracker.IsFull(p.tr) && !p.CanGrow() }

// IsEmpty reports whether every slot in the pool is available.
func (p *GrowingPool[T]) IsEmpty() bool { return tracker.IsEmpty(p.tr) }

// CanGrow reports whether the growth rule is anything other than
// [NoGrowth] and, when a maximum capacity is set, the current capacity is
// below it. It does not compute the next step, so a step that would
// overshoot the maximum, or a rule that yields 0, still fails at
// allocation time.
func (p *GrowingPool[T]) CanGrow() bool {
	if !p.cfg.growth.allowsGrowth() {
		return false
	}
	max, ok := p.cfg.MaxCapacity()
	if !ok {
		return true
	}
	return p.tr.Capacity() < max
}

// Statistics returns a snapshot of this pool's allocation counters.
func (p *GrowingPool[T]) Statistics() Stats { return p.stats.snapshot(p.tr.Capacity()) }

// ResetStatistics zeroes this pool's allocation counters. Idempotent.
func (p *GrowingPool[T]) ResetStatistics() { p.stats.reset() }
