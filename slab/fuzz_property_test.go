package slab

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// TestFuzz_RandomAllocFree_OccupancyInvariants performs random alloc/free
// against a page and validates occupancy bookkeeping after every step.
func TestFuzz_RandomAllocFree_OccupancyInvariants(t *testing.T) {
	p := newTestPage8K(t, 1)
	l := MustLayout(64, 8)
	p.Bitfield().Initialize(l.Size, p.DataSize())
	slots := int(p.DataSize() / l.Size)

	rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
	live := make(map[uintptr]struct{})

	for i := range 4000 {
		if rng.Intn(2) == 0 {
			ptr := p.Allocate(l)
			if ptr == nil {
				require.Len(t, live, slots, "step %d: page refused allocation before filling", i)
				continue
			}
			addr := uintptr(ptr)
			_, dup := live[addr]
			require.False(t, dup, "step %d: address %#x handed out twice", i, addr)
			require.Zero(t, addr%l.Align, "step %d: misaligned object", i)
			require.GreaterOrEqual(t, addr, p.Base())
			require.LessOrEqual(t, addr+l.Size, p.Base()+p.DataSize())
			live[addr] = struct{}{}
		} else if len(live) > 0 {
			// Pick an arbitrary live object to free
			for addr := range live {
				require.NoError(t, p.Deallocate(unsafe.Pointer(addr), l))
				delete(live, addr)
				break
			}
		}

		require.Equal(t, len(live), p.Bitfield().Allocated(slots), "step %d: occupancy drift", i)
	}

	for addr := range live {
		require.NoError(t, p.Deallocate(unsafe.Pointer(addr), l))
	}
	require.True(t, p.IsEmpty(slots))

	t.Logf("4000 random operations completed, all invariants held")
}
