package slab

import "errors"

var (
	// ErrRegionMisaligned indicates a page region whose start address is not a
	// multiple of the page size. Pages must be self-aligned so in-page offsets
	// can be recovered from raw addresses.
	ErrRegionMisaligned = errors.New("slab: region not aligned to the page size")

	// ErrRegionNotWritable indicates a page region mapped without write access.
	ErrRegionNotWritable = errors.New("slab: region not writable")

	// ErrRegionSize indicates a page region whose size is not exactly the page
	// size constant.
	ErrRegionSize = errors.New("slab: region size does not match the page size")

	// ErrBadLayout indicates an allocation layout with a zero size or an
	// alignment that is not a power of two.
	ErrBadLayout = errors.New("slab: layout size must be nonzero and alignment a power of two")
)
