// Package format pins the binary layout of slab pages. Every page keeps its
// bookkeeping in a fixed-size block at the tail of the page, so allocator
// code can locate metadata from a raw address alone. The constants here are
// that contract, kept independent from the public API so higher-level
// packages can orchestrate pages without re-deriving offsets.
package format

const (
	// PageSize8K is the size in bytes of a standard object page. Pages are
	// mapped at addresses aligned to their own size, so any address inside a
	// page yields the page base via addr &^ (PageSize8K - 1).
	PageSize8K = 8192

	// PageSize2M is the size in bytes of a large object page, used for
	// object sizes too coarse for a standard page's 512 slots.
	PageSize2M = 2 * 1024 * 1024

	// BitfieldWords is the number of 64-bit words in a page's occupancy
	// bitfield. The physical width never varies with object size; slots
	// beyond a page's real capacity are permanently marked allocated when
	// the bitfield is initialized.
	BitfieldWords = 8

	// BitfieldBits is the total number of object slots a page can track.
	BitfieldBits = BitfieldWords * 64

	// BitfieldSize is the bitfield's size in bytes.
	BitfieldSize = BitfieldWords * 8

	// RegionHandleSize is the size in bytes of the memory-region handle
	// embedded in each page: start address, byte size, and protection flags,
	// one 64-bit word each. The handle must stay plain integer data because
	// it lives inside mapped memory the garbage collector never scans.
	RegionHandleSize = 24

	// HeaderSize is the size in bytes of the fixed metadata header that
	// follows the region handle at the page tail.
	// Layout:
	//   +0x00  heap/size-class tag  (8)
	//   +0x08  next page link       (8)
	//   +0x10  prev page link       (8)
	//   +0x18  occupancy bitfield   (64)
	HeaderSize = 88

	// MetadataSize is the total size in bytes of the metadata block at the
	// tail of every page: the region handle followed by the fixed header.
	MetadataSize = RegionHandleSize + HeaderSize

	// DataSize8K is the usable object storage in a standard page.
	DataSize8K = PageSize8K - MetadataSize

	// DataSize2M is the usable object storage in a large page.
	DataSize2M = PageSize2M - MetadataSize
)

// Metadata field offsets from a page's base address. The metadata block sits
// at the very end of the page, directly after the data region, so every
// offset is tail-relative and works for any page size.

// MetadataOffset returns the offset of the metadata block (and therefore the
// end of the data region) in a page of the given size.
func MetadataOffset(pageSize int) int {
	return pageSize - MetadataSize
}

// RegionOffset returns the offset of the embedded region handle.
func RegionOffset(pageSize int) int {
	return pageSize - MetadataSize
}

// HeapIDOffset returns the offset of the heap/size-class tag. Cross-page
// bookkeeping reads the tag through this offset from a raw in-page address,
// so it must never move relative to the page end.
func HeapIDOffset(pageSize int) int {
	return pageSize - HeaderSize
}

// NextOffset returns the offset of the "next" page link.
func NextOffset(pageSize int) int {
	return pageSize - HeaderSize + 8
}

// PrevOffset returns the offset of the "prev" page link.
func PrevOffset(pageSize int) int {
	return pageSize - HeaderSize + 16
}

// BitfieldOffset returns the offset of the occupancy bitfield, which always
// occupies the final BitfieldSize bytes of the page.
func BitfieldOffset(pageSize int) int {
	return pageSize - BitfieldSize
}
