package slotpool

// Stats is a point-in-time snapshot of a pool's allocation counters. It is
// the external, read-only view of poolStats returned by Pool.Statistics.
type Stats struct {
	TotalAllocations   uint64
	TotalDeallocations uint64
	CurrentUsage       int
	PeakUsage          int
	Capacity           int
	GrowthCount        uint64
	AllocationFailures uint64
}

// UtilizationRate returns current usage as a percentage of capacity.
func (s Stats) UtilizationRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.CurrentUsage) / float64(s.Capacity) * 100
}

// PeakUtilizationRate returns peak usage as a percentage of capacity.
func (s Stats) PeakUtilizationRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.PeakUsage) / float64(s.Capacity) * 100
}

// HitRate returns the fraction of allocation attempts that succeeded.
func (s Stats) HitRate() float64 {
	attempts := s.TotalAllocations + s.AllocationFailures
	if attempts == 0 {
		return 1
	}
	return float64(s.TotalAllocations) / float64(attempts)
}

// Available returns the number of slots free at the time of the snapshot.
func (s Stats) Available() int {
	if s.Capacity < s.CurrentUsage {
		return 0
	}
	return s.Capacity - s.CurrentUsage
}

// poolStats holds the mutable counters backing a pool's Statistics call. It
// needs no synchronization of its own: FixedPool and GrowingPool are the
// single-threaded cooperative dialect and are never touched concurrently in
// the first place, and SharedPool only ever reaches its embedded pool's
// poolStats while already holding its own mutex (contrast with the
// teacher's Metrics, which is reachable without the event loop's own lock
// and so needs its own sync.RWMutex).
type poolStats struct {
	totalAllocations   uint64
	totalDeallocations uint64
	currentUsage       int
	peakUsage          int
	growthCount        uint64
	allocationFailures uint64
}

func (s *poolStats) recordAllocation(currentUsage int) {
	s.totalAllocations++
	s.currentUsage = currentUsage
	if currentUsage > s.peakUsage {
		s.peakUsage = currentUsage
	}
}

func (s *poolStats) recordDeallocation(currentUsage int) {
	s.totalDeallocations++
	s.currentUsage = currentUsage
}

func (s *poolStats) recordGrowth(newCapacity int) {
	s.growthCount++
}

func (s *poolStats) recordFailure() {
	s.allocationFailures++
}

func (s *poolStats) snapshot(capacity int) Stats {
	return Stats{
		TotalAllocations:   s.totalAllocations,
		TotalDeallocations: s.totalDeallocations,
		CurrentUsage:       s.currentUsage,
		PeakUsage:          s.peakUsage,
		Capacity:           capacity,
		GrowthCount:        s.growthCount,
		AllocationFailures: s.allocationFailures,
	}
}

func (s *poolStats) reset() {
	*s = poolStats{}
}
