package slotpool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSharedPool_AllocateGrowsAndReleases(t *testing.T) {
	p, err := NewSharedPool[int](1, LinearGrowth(1))
	require.NoError(t, err)

	h1, err := p.Allocate(1)
	require.NoError(t, err)
	h2, err := p.Allocate(2)
	require.NoError(t, err)
	require.Equal(t, 2, p.Capacity())

	require.Equal(t, 1, *h1.Get())
	require.Equal(t, 2, *h2.Get())

	h1.Release()
	h2.Release()
	require.Equal(t, 2, p.Available())
}

func TestThreadSafeHandle_GetBypassesLockAfterCache(t *testing.T) {
	p, err := NewSharedPool[int](1, NoGrowth())
	require.NoError(t, err)

	h, err := p.Allocate(5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.Equal(t, 5, *h.Get())
		}()
	}
	wg.Wait()
}

func TestThreadSafeHandle_ReleasePanicsOnSecondCall(t *testing.T) {
	p, err := NewSharedPool[int](1, NoGrowth())
	require.NoError(t, err)

	h, err := p.Allocate(1)
	require.NoError(t, err)
	h.Release()

	require.Panics(t, func() { h.Release() })
}

func TestSharedPool_ConcurrentAllocateReleaseConservesCapacity(t *testing.T) {
	const (
		workers    = 4
		iterations = 500
		capacity   = 100
	)
	p, err := NewSharedPool[int](capacity, NoGrowth())
	require.NoError(t, err)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				h, err := p.Allocate(i)
				if err != nil {
					continue
				}
				_ = *h.Get()
				h.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, capacity, p.Available())
	require.Equal(t, capacity, p.Capacity())
}
