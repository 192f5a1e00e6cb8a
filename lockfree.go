package slotpool

import "sync/atomic"

// RingPool is the lock-free concurrency dialect: a bounded, lock-free
// multi-producer multi-consumer queue of pre-populated elements. Its
// operations retry a CAS until they win it, so they never block but are
// not wait-free: the number of retries under contention is not bounded.
// Deliberately the simplest pool variant: no indices, no handles, no
// growth — full index-stable semantics lock-free would need hazard
// pointers or epochs this core doesn't take on.
//
// Grounded on the teacher's MicrotaskRing (per-slot atomic sequence
// numbers plus a CAS loop on the producer's tail), generalized from
// single-consumer to multi-consumer by applying the same per-slot
// sequence/CAS technique Vyukov's bounded MPMC queue uses on the consumer
// side too, instead of the teacher's plain, MPSC-only head.Add(1).
type RingPool[T any] struct {
	slots    []ringSlot[T]
	mask     uint64
	head     atomic.Uint64
	tail     atomic.Uint64
	capacity int
}

type ringSlot[T any] struct {
	seq   atomic.Uint64
	value *T
}

// NewRingPool returns a RingPool of capacity elements, each constructed by
// factory and ready to be handed out by TryAllocate. capacity is rounded
// up to the next power of two for the ring's bitwise index wrapping; the
// pool still reports the requested capacity via Capacity.
func NewRingPool[T any](capacity int, factory func() T) *RingPool[T] {
	if capacity < 1 {
		capacity = 1
	}
	size := nextPowerOfTwo(capacity)
	p := &RingPool[T]{
		slots:    make([]ringSlot[T], size),
		mask:     uint64(size - 1),
		capacity: capacity,
	}
	for i := range p.slots {
		p.slots[i].seq.Store(uint64(i))
	}
	for i := 0; i < capacity; i++ {
		v := factory()
		p.push(&v)
	}
	return p
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// push is the producer side of the Vyukov algorithm: CAS the tail forward,
// then publish the value via the slot's sequence number.
func (p *RingPool[T]) push(value *T) bool {
	for {
		tail := p.tail.Load()
		slot := &p.slots[tail&p.mask]
		seq := slot.seq.Load()
		diff := int64(seq) - int64(tail)
		switch {
		case diff == 0:
			if p.tail.CompareAndSwap(tail, tail+1) {
				slot.value = value
				slot.seq.Store(tail + 1)
				return true
			}
		case diff < 0:
			return false // full
		default:
			// Another producer raced ahead; retry with a fresh tail.
		}
	}
}

// TryAllocate pops a pre-populated element from the ring. It is lock-free:
// it retries its CAS under contention without a bound, never blocks, and
// never allocates.
func (p *RingPool[T]) TryAllocate() (*T, bool) {
	for {
		head := p.head.Load()
		slot := &p.slots[head&p.mask]
		seq := slot.seq.Load()
		diff := int64(seq) - int64(head+1)
		switch {
		case diff == 0:
			if p.head.CompareAndSwap(head, head+1) {
				value := slot.value
				slot.value = nil
				slot.seq.Store(head + uint64(len(p.slots)))
				callAcquire(value)
				return value, true
			}
		case diff < 0:
			return nil, false // empty
		default:
			// Another consumer raced ahead; retry with a fresh head.
		}
	}
}

// Return pushes value back into the ring, making it available to a
// subsequent TryAllocate. value must have come from this pool's
// TryAllocate; pushing an unrelated pointer corrupts the ring's capacity
// accounting.
func (p *RingPool[T]) Return(value *T) {
	callRelease(value)
	p.push(value)
}

// Capacity returns the number of elements this pool was constructed with.
func (p *RingPool[T]) Capacity() int { return p.capacity }
