// Package region provides the mapped-memory handle slab pages are built on.
//
// A Region describes one contiguous range of mapped memory: start address,
// byte size, and protection. The value is deliberately plain data (three
// 64-bit words, no Go pointers) so a page can embed its own handle inside
// the mapped block without hiding anything from the garbage collector. The
// collector never scans mapped memory; whoever holds a Region is responsible
// for keeping it mapped for as long as any page metadata or object inside it
// is in use.
//
// Regions come from MapAligned, which carves an aligned window out of an
// anonymous mapping, or from FromRange when the caller already owns mapped
// memory. The zero Region is the empty sentinel: no address, no size, never
// writable.
package region

import (
	"errors"
	"sync"
	"unsafe"
)

// Prot describes the protection of a mapped region.
type Prot uint64

const (
	// ReadOnly maps a region for reads only.
	ReadOnly Prot = 0x1

	// ReadWrite maps a region for reads and writes.
	ReadWrite Prot = 0x3
)

func (p Prot) writable() bool {
	return p&0x2 != 0
}

// ErrBadMapSize rejects MapAligned calls with a zero size or an alignment
// that is not a power of two.
var ErrBadMapSize = errors.New("region: size must be nonzero and alignment a power of two")

// ErrNotMapped is returned when Unmap is handed a region this package did
// not map (or one that was already unmapped).
var ErrNotMapped = errors.New("region: not mapped by this package")

// Region is a handle to a range of mapped memory. The zero value is the
// empty sentinel.
type Region struct {
	start uint64
	size  uint64
	prot  Prot
}

// FromRange wraps an existing mapped range in a Region. The caller
// guarantees the range is live, matches the stated protection, and outlives
// every use of the returned handle. Unmap only works on regions produced by
// MapAligned; ranges wrapped here are released by whoever mapped them.
func FromRange(start, size uintptr, prot Prot) Region {
	return Region{start: uint64(start), size: uint64(size), prot: prot}
}

// Start returns the base address of the region, 0 for the empty region.
func (r Region) Start() uintptr {
	return uintptr(r.start)
}

// Size returns the region's length in bytes.
func (r Region) Size() uintptr {
	return uintptr(r.size)
}

// IsWritable reports whether the region was mapped with write access.
func (r Region) IsWritable() bool {
	return r.prot.writable()
}

// IsEmpty reports whether r is the empty sentinel.
func (r Region) IsEmpty() bool {
	return r.size == 0
}

// Take moves the handle out of r, leaving the empty sentinel behind. Pages
// use this to hand their backing memory to the caller at decommission
// without ever holding two live copies of the same handle.
func (r *Region) Take() Region {
	out := *r
	*r = Region{}
	return out
}

// Bytes returns the mapped range as a byte slice, or nil for the empty
// region. The slice aliases the mapping directly; it goes stale the moment
// the region is unmapped.
func (r Region) Bytes() []byte {
	if r.IsEmpty() {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(r.Start())), r.Size())
}

// mappings pins the full allocation behind every MapAligned window, keyed
// by window start. On mmap platforms the stored slice is what the kernel
// handed back (windows are trimmed out of a larger mapping, so the original
// slice is needed to release it); on the fallback it pins the heap buffer
// so the collector cannot reclaim memory that Regions reference only by
// integer address.
var mappings = struct {
	sync.Mutex
	m map[uintptr][]byte
}{m: make(map[uintptr][]byte)}

func trackMapping(start uintptr, full []byte) {
	mappings.Lock()
	mappings.m[start] = full
	mappings.Unlock()
}

func takeMapping(start uintptr) ([]byte, bool) {
	mappings.Lock()
	full, ok := mappings.m[start]
	if ok {
		delete(mappings.m, start)
	}
	mappings.Unlock()
	return full, ok
}
