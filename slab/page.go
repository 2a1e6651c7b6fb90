package slab

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/format"
	"github.com/joshuapare/slabkit/region"
)

// AllocablePage is the contract a fixed-size page type hands the shared
// machinery: stable identity plus access to its geometry, tracker, and
// intrusive links. Each concrete page satisfies it with P set to its own
// pointer type, so links and lists stay fully typed.
type AllocablePage[P comparable] interface {
	comparable

	// Base returns the page's own address in memory.
	Base() uintptr

	// Size returns the total page size in bytes.
	Size() uintptr

	// MetadataSize returns the size of the metadata tail in bytes.
	MetadataSize() uintptr

	// Bitfield returns the page's occupancy tracker.
	Bitfield() *Bitfield

	// Next and Prev expose the intrusive list links.
	Next() *Rawlink[P]
	Prev() *Rawlink[P]
}

// The derived page operations below are written once against the contract;
// every concrete page type delegates to them.

// firstFit locates the lowest aligned free slot of p for l without
// claiming it.
func firstFit[P AllocablePage[P]](p P, l Layout) (int, uintptr, bool) {
	return p.Bitfield().FirstFit(p.Base(), l, p.Size(), p.MetadataSize())
}

// allocate claims the first-fit slot and returns its address, or nil when
// the page has no aligned free slot left. A full page is a normal outcome
// the caller answers by moving to another page, never an error.
func allocate[P AllocablePage[P]](p P, l Layout) unsafe.Pointer {
	idx, addr, ok := firstFit(p, l)
	if !ok {
		return nil
	}
	p.Bitfield().SetBit(idx)
	return unsafe.Pointer(addr)
}

// deallocate releases the object at ptr. The in-page offset comes from
// addr mod page size, which is only sound because pages are mapped at
// addresses aligned to their own size.
//
// A misaligned offset or an already-free slot means the caller handed
// back memory this page never gave out - a wild pointer or a double free.
// After either, the tracker cannot be trusted, so execution halts instead
// of returning an error someone might swallow.
func deallocate[P AllocablePage[P]](p P, ptr unsafe.Pointer, l Layout) error {
	offset := uintptr(ptr) & (p.Size() - 1)
	if offset%l.Size != 0 {
		panic(fmt.Sprintf("slab: deallocate %p: offset %d is not a multiple of object size %d",
			ptr, offset, l.Size))
	}
	idx := int(offset / l.Size)
	if !p.Bitfield().IsAllocated(idx) {
		panic(fmt.Sprintf("slab: deallocate %p: slot %d is already free (double free or wild pointer)",
			ptr, idx))
	}
	p.Bitfield().ClearBit(idx)
	return nil
}

// validateRegion applies the page construction checks shared by every page
// size: self-aligned start, writable mapping, exact size. Failures are
// recoverable; the caller still owns the region and can retry with another
// one.
func validateRegion(r region.Region, pageSize uintptr) error {
	if !format.IsAligned(r.Start(), pageSize) {
		return fmt.Errorf("%w: start %#x, page size %d", ErrRegionMisaligned, r.Start(), pageSize)
	}
	if !r.IsWritable() {
		return fmt.Errorf("%w: start %#x", ErrRegionNotWritable, r.Start())
	}
	if r.Size() != pageSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrRegionSize, r.Size(), pageSize)
	}
	return nil
}
