package slab

import (
	"unsafe"

	"github.com/joshuapare/slabkit/internal/format"
	"github.com/joshuapare/slabkit/region"
)

// PageSize2M is the size and required alignment, in bytes, of the region
// backing a large page.
const PageSize2M = format.PageSize2M

// LargePage2M is the 2 MiB page for objects too coarse for a standard
// page's slot granularity. It shares Page8K's tail layout and all derived
// behavior; only the data region scales up, which with 512 tracked slots
// puts its useful object sizes at roughly 4 KiB and above.
type LargePage2M struct {
	data     [format.DataSize2M]byte
	region   region.Region
	heapID   uint64
	next     Rawlink[*LargePage2M]
	prev     Rawlink[*LargePage2M]
	bitfield Bitfield
}

var (
	_ [format.PageSize2M - unsafe.Sizeof(LargePage2M{})]byte
	_ [unsafe.Sizeof(LargePage2M{}) - format.PageSize2M]byte
)

// NewLargePage2M lays a page over r and moves ownership of the region into
// it. The region must be writable, exactly format.PageSize2M bytes, and
// start on a 2 MiB boundary; violations come back as recoverable errors
// and leave r with the caller. Initialize the tracker before allocating.
func NewLargePage2M(r region.Region, heapID uint64) (*LargePage2M, error) {
	if err := validateRegion(r, format.PageSize2M); err != nil {
		return nil, err
	}
	b := r.Bytes()
	p := (*LargePage2M)(unsafe.Pointer(&b[0]))
	p.ClearMetadata()
	p.region = r
	p.heapID = heapID
	debugLogf("page2m: commissioned at %#x, heap %d", p.Base(), heapID)
	return p, nil
}

// LargePage2MFromAddr recovers the page containing addr by masking the
// address down to the page boundary. Valid only for addresses inside a
// live 2 MiB page.
func LargePage2MFromAddr(addr uintptr) *LargePage2M {
	return (*LargePage2M)(unsafe.Pointer(format.AlignDown(addr, format.PageSize2M)))
}

// RetrieveRegion takes the backing region handle out of the page, leaving
// the empty sentinel behind. The same decommission rules as Page8K apply.
func (p *LargePage2M) RetrieveRegion() region.Region {
	debugLogf("page2m: decommissioned at %#x", p.Base())
	return p.region.Take()
}

// ClearMetadata resets the tag, both links, and the occupancy tracker to
// zero, leaving the region handle in place.
func (p *LargePage2M) ClearMetadata() {
	p.heapID = 0
	p.next.Clear()
	p.prev.Clear()
	p.bitfield = Bitfield{}
}

// Base returns the page's own address.
func (p *LargePage2M) Base() uintptr {
	return uintptr(unsafe.Pointer(p))
}

// Size returns the total page size in bytes.
func (p *LargePage2M) Size() uintptr {
	return format.PageSize2M
}

// MetadataSize returns the size of the metadata tail in bytes.
func (p *LargePage2M) MetadataSize() uintptr {
	return format.MetadataSize
}

// DataSize returns the usable object storage in bytes.
func (p *LargePage2M) DataSize() uintptr {
	return format.DataSize2M
}

// Bitfield returns the page's occupancy tracker.
func (p *LargePage2M) Bitfield() *Bitfield {
	return &p.bitfield
}

// Next returns the intrusive "next" list link.
func (p *LargePage2M) Next() *Rawlink[*LargePage2M] {
	return &p.next
}

// Prev returns the intrusive "prev" list link.
func (p *LargePage2M) Prev() *Rawlink[*LargePage2M] {
	return &p.prev
}

// HeapID returns the size-class tag.
func (p *LargePage2M) HeapID() uint64 {
	return p.heapID
}

// SetHeapID tags the page with the size class it serves.
func (p *LargePage2M) SetHeapID(id uint64) {
	p.heapID = id
}

// FirstFit locates the lowest aligned free slot for l without claiming it.
func (p *LargePage2M) FirstFit(l Layout) (int, uintptr, bool) {
	return firstFit(p, l)
}

// Allocate claims a slot for l and returns its address, or nil when the
// page has no aligned free slot left.
func (p *LargePage2M) Allocate(l Layout) unsafe.Pointer {
	return allocate(p, l)
}

// Deallocate releases the object at ptr, halting on a wild pointer or
// double free; see deallocate.
func (p *LargePage2M) Deallocate(ptr unsafe.Pointer, l Layout) error {
	return deallocate(p, ptr, l)
}

// IsFull reports whether no slot is free.
func (p *LargePage2M) IsFull() bool {
	return p.bitfield.IsFull()
}

// IsEmpty reports whether every slot below relevantBits is free.
func (p *LargePage2M) IsEmpty(relevantBits int) bool {
	return p.bitfield.AllFree(relevantBits)
}

// Compile-time check that LargePage2M satisfies the page contract.
var _ = firstFit[*LargePage2M]
