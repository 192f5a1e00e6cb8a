package storage

import "testing"

func TestFixed_AtReadWrite(t *testing.T) {
	f := NewFixed[int](4)
	*f.At(0) = 10
	*f.At(3) = 40
	if got := *f.At(0); got != 10 {
		t.Fatalf("At(0) = %d, want 10", got)
	}
	if got := *f.At(3); got != 40 {
		t.Fatalf("At(3) = %d, want 40", got)
	}
	if f.Capacity() != 4 {
		t.Fatalf("capacity = %d, want 4", f.Capacity())
	}
}

func TestFixed_GrowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic calling Grow on Fixed storage")
		}
	}()
	NewFixed[int](2).Grow(1)
}

func TestChunked_SingleChunkAddressing(t *testing.T) {
	c := NewChunked[int](5)
	for i := 0; i < 5; i++ {
		*c.At(i) = i * i
	}
	for i := 0; i < 5; i++ {
		if got := *c.At(i); got != i*i {
			t.Fatalf("At(%d) = %d, want %d", i, got, i*i)
		}
	}
}

func TestChunked_GrowAppendsNewChunk(t *testing.T) {
	c := NewChunked[string](2)
	*c.At(0) = "a"
	*c.At(1) = "b"

	c.Grow(3)
	if c.Capacity() != 5 {
		t.Fatalf("capacity after grow = %d, want 5", c.Capacity())
	}

	*c.At(2) = "c"
	*c.At(3) = "d"
	*c.At(4) = "e"

	want := []string{"a", "b", "c", "d", "e"}
	for i, w := range want {
		if got := *c.At(i); got != w {
			t.Fatalf("At(%d) = %q, want %q", i, got, w)
		}
	}
}

// TestChunked_AddressStabilityAcrossGrowth is the address-stability
// invariant: a pointer obtained before a Grow call must still observe (and
// let us mutate) the same slot after growth, since handles hold onto *T
// across the pool's lifetime.
func TestChunked_AddressStabilityAcrossGrowth(t *testing.T) {
	c := NewChunked[int](2)
	ptr0 := c.At(0)
	*ptr0 = 100

	for i := 0; i < 10; i++ {
		c.Grow(4)
	}

	if *ptr0 != 100 {
		t.Fatalf("value at stable pointer changed after growth: got %d, want 100", *ptr0)
	}
	*ptr0 = 200
	if got := *c.At(0); got != 200 {
		t.Fatalf("write through stable pointer not observed via At: got %d, want 200", got)
	}
}

func TestChunked_BoundaryExactIndexLookup(t *testing.T) {
	c := NewChunked[int](3)
	c.Grow(3) // boundaries: [3, 6]
	c.Grow(3) // boundaries: [3, 6, 9]

	cases := []struct {
		index          int
		wantChunk      int
		wantChunkValue int
	}{
		{0, 0, 0},
		{2, 0, 0},
		{3, 1, 0}, // first index of second chunk
		{5, 1, 0}, // last index of second chunk
		{6, 2, 0}, // first index of third chunk
		{8, 2, 0}, // last index of third chunk
	}
	for _, tc := range cases {
		chunkIdx, offset := c.locate(tc.index)
		if chunkIdx != tc.wantChunk {
			t.Fatalf("locate(%d) chunk = %d, want %d", tc.index, chunkIdx, tc.wantChunk)
		}
		*c.At(tc.index) = tc.index
		if got := c.chunks[chunkIdx][offset]; got != tc.index {
			t.Fatalf("value at chunk %d offset %d = %d, want %d", chunkIdx, offset, got, tc.index)
		}
	}
}
