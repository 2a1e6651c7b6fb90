package slab

import (
	"testing"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/format"
)

// BenchmarkBitfield_FirstFit_Empty measures the fast path: lowest slot of
// an untouched tracker.
func BenchmarkBitfield_FirstFit_Empty(b *testing.B) {
	var bf Bitfield
	bf.Initialize(64, format.DataSize8K)
	l := MustLayout(64, 8)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		_, _, ok := bf.FirstFit(testBase8K, l, format.PageSize8K, format.MetadataSize)
		if !ok {
			b.Fatal("expected a free slot")
		}
	}
}

// BenchmarkBitfield_FirstFit_NearlyFull measures the scan cost when only
// the last usable slot is free.
func BenchmarkBitfield_FirstFit_NearlyFull(b *testing.B) {
	var bf Bitfield
	bf.Initialize(64, format.DataSize8K)
	for i := range 125 {
		bf.SetBit(i)
	}
	l := MustLayout(64, 8)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		idx, _, ok := bf.FirstFit(testBase8K, l, format.PageSize8K, format.MetadataSize)
		if !ok || idx != 125 {
			b.Fatalf("expected slot 125, got %d ok=%v", idx, ok)
		}
	}
}

// BenchmarkPage8K_AllocateDeallocate measures the steady-state pair on a
// real page: claim slot 0, release it.
func BenchmarkPage8K_AllocateDeallocate(b *testing.B) {
	p := newTestPage8K(b, 1)
	l := MustLayout(64, 8)
	p.Bitfield().Initialize(l.Size, p.DataSize())

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		ptr := p.Allocate(l)
		if ptr == nil {
			b.Fatal("allocation failed")
		}
		if err := p.Deallocate(ptr, l); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkPage8K_FillDrain measures a full page lifecycle per iteration:
// 126 allocations followed by 126 frees.
func BenchmarkPage8K_FillDrain(b *testing.B) {
	p := newTestPage8K(b, 1)
	l := MustLayout(64, 8)
	p.Bitfield().Initialize(l.Size, p.DataSize())
	ptrs := make([]unsafe.Pointer, 0, 126)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		ptrs = ptrs[:0]
		for {
			ptr := p.Allocate(l)
			if ptr == nil {
				break
			}
			ptrs = append(ptrs, ptr)
		}
		if len(ptrs) != 126 {
			b.Fatalf("expected 126 slots, got %d", len(ptrs))
		}
		for _, ptr := range ptrs {
			if err := p.Deallocate(ptr, l); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// BenchmarkPageList_InsertRemove measures the link shuffle an allocator
// performs when a page changes occupancy class.
func BenchmarkPageList_InsertRemove(b *testing.B) {
	pages := newTestPages(b, 4)
	var l PageList[*Page8K]
	for _, p := range pages[1:] {
		l.InsertFront(p)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		l.InsertFront(pages[0])
		l.Remove(pages[0])
	}
}
