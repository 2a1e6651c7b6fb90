package slab

import (
	"unsafe"

	"github.com/joshuapare/slabkit/internal/format"
	"github.com/joshuapare/slabkit/region"
)

// PageSize8K is the size and required alignment, in bytes, of the region
// backing a standard page.
const PageSize8K = format.PageSize8K

// Page8K is the standard 8 KiB object page. The struct is never allocated
// as a Go value: NewPage8K lays it over the base of a self-aligned mapped
// region, so the fields below are the page's binary layout. Object slots
// fill the front; the region handle, tag, links, and tracker pack the
// tail at the offsets internal/format pins.
type Page8K struct {
	data     [format.DataSize8K]byte
	region   region.Region
	heapID   uint64
	next     Rawlink[*Page8K]
	prev     Rawlink[*Page8K]
	bitfield Bitfield
}

// Any drift in the field layout corrupts the address arithmetic the
// allocator depends on, so the struct size is pinned in both directions.
var (
	_ [format.PageSize8K - unsafe.Sizeof(Page8K{})]byte
	_ [unsafe.Sizeof(Page8K{}) - format.PageSize8K]byte
)

// NewPage8K lays a page over r and moves ownership of the region into it.
// The region must be writable, exactly format.PageSize8K bytes, and start
// on an 8 KiB boundary; violations come back as recoverable errors and
// leave r with the caller.
//
// The tracker starts zeroed. Before allocating, initialize it for the
// object size the page will serve:
//
//	p.Bitfield().Initialize(l.Size, p.DataSize())
func NewPage8K(r region.Region, heapID uint64) (*Page8K, error) {
	if err := validateRegion(r, format.PageSize8K); err != nil {
		return nil, err
	}
	b := r.Bytes()
	p := (*Page8K)(unsafe.Pointer(&b[0]))
	p.ClearMetadata()
	p.region = r
	p.heapID = heapID
	debugLogf("page8k: commissioned at %#x, heap %d", p.Base(), heapID)
	return p, nil
}

// Page8KFromAddr recovers the page containing addr by masking the address
// down to the page boundary. Valid only for addresses inside a live 8 KiB
// page; that is exactly the trust deallocation already extends to the
// caller.
func Page8KFromAddr(addr uintptr) *Page8K {
	return (*Page8K)(unsafe.Pointer(format.AlignDown(addr, format.PageSize8K)))
}

// RetrieveRegion takes the backing region handle out of the page, leaving
// the empty sentinel behind. Call it only once the page is unlinked from
// every list and no allocation in it is believed live; the returned handle
// is what keeps the memory mapped.
func (p *Page8K) RetrieveRegion() region.Region {
	debugLogf("page8k: decommissioned at %#x", p.Base())
	return p.region.Take()
}

// ClearMetadata resets the tag, both links, and the occupancy tracker to
// zero. The region handle is left in place; only RetrieveRegion moves it.
func (p *Page8K) ClearMetadata() {
	p.heapID = 0
	p.next.Clear()
	p.prev.Clear()
	p.bitfield = Bitfield{}
}

// Base returns the page's own address.
func (p *Page8K) Base() uintptr {
	return uintptr(unsafe.Pointer(p))
}

// Size returns the total page size in bytes.
func (p *Page8K) Size() uintptr {
	return format.PageSize8K
}

// MetadataSize returns the size of the metadata tail in bytes.
func (p *Page8K) MetadataSize() uintptr {
	return format.MetadataSize
}

// DataSize returns the usable object storage in bytes.
func (p *Page8K) DataSize() uintptr {
	return format.DataSize8K
}

// Bitfield returns the page's occupancy tracker.
func (p *Page8K) Bitfield() *Bitfield {
	return &p.bitfield
}

// Next returns the intrusive "next" list link.
func (p *Page8K) Next() *Rawlink[*Page8K] {
	return &p.next
}

// Prev returns the intrusive "prev" list link.
func (p *Page8K) Prev() *Rawlink[*Page8K] {
	return &p.prev
}

// HeapID returns the size-class tag.
func (p *Page8K) HeapID() uint64 {
	return p.heapID
}

// SetHeapID tags the page with the size class it serves.
func (p *Page8K) SetHeapID(id uint64) {
	p.heapID = id
}

// FirstFit locates the lowest aligned free slot for l without claiming it.
func (p *Page8K) FirstFit(l Layout) (int, uintptr, bool) {
	return firstFit(p, l)
}

// Allocate claims a slot for l and returns its address, or nil when the
// page has no aligned free slot left.
func (p *Page8K) Allocate(l Layout) unsafe.Pointer {
	return allocate(p, l)
}

// Deallocate releases the object at ptr, which must have been returned by
// Allocate on this page with the same layout. It halts on a wild pointer
// or double free; see deallocate.
func (p *Page8K) Deallocate(ptr unsafe.Pointer, l Layout) error {
	return deallocate(p, ptr, l)
}

// IsFull reports whether no slot is free.
func (p *Page8K) IsFull() bool {
	return p.bitfield.IsFull()
}

// IsEmpty reports whether every slot below relevantBits is free.
func (p *Page8K) IsEmpty(relevantBits int) bool {
	return p.bitfield.AllFree(relevantBits)
}

// Compile-time check that Page8K satisfies the page contract.
var _ = firstFit[*Page8K]
