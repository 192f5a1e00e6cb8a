package tracker

// FreeList is a slot tracker backed by a plain slice of free indices. It
// differs from Stack only in intent, not in mechanics: both claim and
// release at the end of the slice (see the LIFO release-order decision in
// the package's design notes), but FreeList makes no cache-locality claim
// and is the tracker used when no stronger ordering guarantee is needed.
//
// Time complexity: O(1) for Claim and Release.
type FreeList struct {
	free     []int
	capacity int
}

var _ Tracker = (*FreeList)(nil)

// NewFreeList returns a FreeList tracking capacity indices, all available,
// seeded in ascending order (so the first capacity claims return 0..N-1).
func NewFreeList(capacity int) *FreeList {
	free := make([]int, capacity)
	for i := range free {
		free[i] = capacity - 1 - i
	}
	return &FreeList{free: free, capacity: capacity}
}

func (f *FreeList) Claim() (int, bool) {
	n := len(f.free)
	if n == 0 {
		return 0, false
	}
	index := f.free[n-1]
	f.free = f.free[:n-1]
	return index, true
}

func (f *FreeList) Release(index int) {
	f.free = append(f.free, index)
}

func (f *FreeList) Extend(additional int) {
	old := f.capacity
	f.capacity += additional
	for i := f.capacity - 1; i >= old; i-- {
		f.free = append(f.free, i)
	}
}

func (f *FreeList) Available() int { return len(f.free) }

func (f *FreeList) Capacity() int { return f.capacity }
