// Package slab provides the page-level machinery of a slab memory
// allocator: fixed-size pages that carve themselves into object slots,
// bit-per-slot occupancy tracking with alignment-aware first-fit search,
// and intrusive page lists a size-class allocator can group pages with.
//
// # Overview
//
// A page is a single self-aligned block of mapped memory (8 KiB for
// Page8K, 2 MiB for LargePage2M) whose tail holds its own bookkeeping:
// the backing region handle, a size-class tag, two list links, and a
// 512-slot occupancy bitfield. Because metadata lives at fixed offsets
// inside the page itself, any raw object address can be mapped back to
// its page and tag with address arithmetic alone.
//
// The package never maps or unmaps memory. A page is laid over a region
// the caller provides at construction and hands the region back at
// decommission; deciding when pages come and go belongs to the layer
// above.
//
// # Page Anatomy
//
// Every page has the same shape, sized by internal/format:
//
//	[ object slots ............................ ] DataSize
//	[ region handle (24) ........................]
//	[ heap tag (8) | next (8) | prev (8) ........] MetadataSize = 112
//	[ occupancy bitfield (64) ...................]
//
// # Allocating
//
// Pages serve one object size at a time. After construction, initialize
// the tracker for that size, then allocate until the page reports no
// space:
//
//	r, err := region.MapAligned(slab.PageSize8K, slab.PageSize8K, region.ReadWrite)
//	if err != nil {
//	    return err
//	}
//	p, err := slab.NewPage8K(r, 3)
//	if err != nil {
//	    return err
//	}
//	l := slab.MustLayout(64, 8)
//	p.Bitfield().Initialize(l.Size, p.DataSize())
//
//	for ptr := p.Allocate(l); ptr != nil; ptr = p.Allocate(l) {
//	    // ptr is a 64-byte, 8-aligned object inside the page
//	}
//
// Allocate returns nil when no aligned slot is left; a full page is an
// expected outcome the caller handles by moving to another page.
// Deallocate halts the process on a wild pointer or double free, because
// those mean the tracker can no longer be trusted.
//
// # Page Lists
//
// PageList links pages through the next/prev fields embedded in their
// metadata, so membership costs no allocations and removal is O(1):
//
//	var partial slab.PageList[*slab.Page8K]
//	partial.InsertFront(p)
//	for it := partial.Iter(); ; {
//	    page, ok := it.Next()
//	    if !ok {
//	        break
//	    }
//	    // inspect page
//	}
//
// # Thread Safety
//
// Nothing in this package locks. A page list and every page linked into
// it form one logical resource; callers serialize access per list.
// Distinct lists, and distinct unlinked pages, are independent.
//
// # Related Packages
//
//   - github.com/joshuapare/slabkit/region: mapped-memory handles pages are built on
//   - github.com/joshuapare/slabkit/internal/format: binary layout constants
package slab
