package tracker

import "testing"

// exhaust claims every available index from t and returns them in claim
// order, failing the test if Claim reports ok=false before that many
// claims have happened.
func exhaust(t *testing.T, tr Tracker) []int {
	t.Helper()
	available := tr.Available()
	indices := make([]int, 0, available)
	for i := 0; i < available; i++ {
		index, ok := tr.Claim()
		if !ok {
			t.Fatalf("claim %d: expected ok, tracker reports capacity=%d available=%d", i, tr.Capacity(), tr.Available())
		}
		indices = append(indices, index)
	}
	return indices
}

func testTrackerContract(t *testing.T, name string, newTracker func(capacity int) Tracker) {
	t.Run(name+"/fresh_state", func(t *testing.T) {
		tr := newTracker(10)
		if tr.Capacity() != 10 {
			t.Fatalf("capacity = %d, want 10", tr.Capacity())
		}
		if tr.Available() != 10 {
			t.Fatalf("available = %d, want 10", tr.Available())
		}
		if !IsEmpty(tr) || IsFull(tr) {
			t.Fatalf("fresh tracker should be empty and not full")
		}
	})

	t.Run(name+"/claim_until_full", func(t *testing.T) {
		tr := newTracker(5)
		exhaust(t, tr)
		if !IsFull(tr) {
			t.Fatalf("expected full after claiming capacity")
		}
		if _, ok := tr.Claim(); ok {
			t.Fatalf("claim on full tracker should fail")
		}
	})

	t.Run(name+"/release_then_reclaim", func(t *testing.T) {
		tr := newTracker(3)
		indices := exhaust(t, tr)
		tr.Release(indices[0])
		if tr.Available() != 1 {
			t.Fatalf("available after one release = %d, want 1", tr.Available())
		}
		reclaimed, ok := tr.Claim()
		if !ok {
			t.Fatalf("expected a claim to succeed after release")
		}
		if reclaimed != indices[0] {
			t.Fatalf("reclaimed %d, want released index %d", reclaimed, indices[0])
		}
	})

	t.Run(name+"/extend_after_full", func(t *testing.T) {
		tr := newTracker(2)
		exhaust(t, tr)
		tr.Extend(3)
		if tr.Capacity() != 5 {
			t.Fatalf("capacity after extend = %d, want 5", tr.Capacity())
		}
		if tr.Available() != 3 {
			t.Fatalf("available after extend = %d, want 3", tr.Available())
		}
		exhaust(t, tr)
		if !IsFull(tr) {
			t.Fatalf("expected full after claiming extended capacity")
		}
	})
}

func TestTrackerContract(t *testing.T) {
	testTrackerContract(t, "stack", func(c int) Tracker { return NewStack(c) })
	testTrackerContract(t, "freelist", func(c int) Tracker { return NewFreeList(c) })
	testTrackerContract(t, "bitmap", func(c int) Tracker { return NewBitmap(c) })
}

func TestStack_ClaimOrder(t *testing.T) {
	s := NewStack(5)
	for want := 0; want < 5; want++ {
		got, ok := s.Claim()
		if !ok || got != want {
			t.Fatalf("claim %d: got (%d, %v), want %d", want, got, ok, want)
		}
	}
}

func TestStack_LIFORelease(t *testing.T) {
	s := NewStack(3)
	idx0, _ := s.Claim()
	idx1, _ := s.Claim()
	idx2, _ := s.Claim()

	s.Release(idx0)
	s.Release(idx1)
	s.Release(idx2)

	for _, want := range []int{idx2, idx1, idx0} {
		got, ok := s.Claim()
		if !ok || got != want {
			t.Fatalf("claim after release: got (%d, %v), want %d", got, ok, want)
		}
	}
}

func TestFreeList_ReuseFreedSlot(t *testing.T) {
	f := NewFreeList(3)
	idx0, _ := f.Claim()
	_, _ = f.Claim()

	f.Release(idx0)
	reused, ok := f.Claim()
	if !ok || reused != idx0 {
		t.Fatalf("claim after release: got (%d, %v), want %d", reused, ok, idx0)
	}
}

func TestBitmap_ReuseFreedSlot(t *testing.T) {
	b := NewBitmap(10)
	idx, _ := b.Claim()
	if !b.IsClaimed(idx) {
		t.Fatalf("expected index %d to be claimed", idx)
	}
	b.Release(idx)
	if b.IsClaimed(idx) {
		t.Fatalf("expected index %d to be free after release", idx)
	}
	reused, ok := b.Claim()
	if !ok || reused != idx {
		t.Fatalf("claim after release: got (%d, %v), want %d", reused, ok, idx)
	}
}

func TestBitmap_LargeCapacitySpansMultipleWords(t *testing.T) {
	b := NewBitmap(1000)
	indices := make([]int, 0, 500)
	for i := 0; i < 500; i++ {
		idx, ok := b.Claim()
		if !ok {
			t.Fatalf("claim %d failed", i)
		}
		indices = append(indices, idx)
	}
	if b.Available() != 500 {
		t.Fatalf("available = %d, want 500", b.Available())
	}
	for _, idx := range indices {
		b.Release(idx)
	}
	if !IsEmpty(b) {
		t.Fatalf("expected empty after releasing all claimed indices")
	}
}

func TestDebug_PanicsOnDoubleRelease(t *testing.T) {
	d := WithDoubleReleaseCheck(NewStack(2))
	idx, _ := d.Claim()
	d.Release(idx)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double release")
		}
	}()
	d.Release(idx)
}

func TestDebug_PanicsOnReleaseOfUnclaimedIndex(t *testing.T) {
	d := WithDoubleReleaseCheck(NewStack(2))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on release of never-claimed index")
		}
	}()
	d.Release(0)
}

func TestDebug_ForwardsExtend(t *testing.T) {
	d := WithDoubleReleaseCheck(NewFreeList(2))
	exhaust(t, d)
	d.Extend(2)
	if d.Capacity() != 4 {
		t.Fatalf("capacity after extend = %d, want 4", d.Capacity())
	}
	idx, ok := d.Claim()
	if !ok {
		t.Fatalf("expected claim to succeed after extend")
	}
	d.Release(idx)
}
