//go:build linux || darwin

package region

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/slabkit/internal/format"
)

// MapAligned creates an anonymous private mapping of size bytes whose start
// address is a multiple of align. mmap only promises OS-page alignment, so
// the implementation maps size+align bytes and hands out the first aligned
// window inside it; the surrounding slack stays mapped and the whole
// allocation is released as one unit by Unmap.
func MapAligned(size, align uintptr, prot Prot) (Region, error) {
	if size == 0 || !format.IsPowerOfTwo(align) {
		return Region{}, fmt.Errorf("%w: size %d, align %d", ErrBadMapSize, size, align)
	}
	p := unix.PROT_READ
	if prot.writable() {
		p |= unix.PROT_WRITE
	}
	full, err := unix.Mmap(-1, 0, int(size+align), p, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return Region{}, fmt.Errorf("region: mmap %d bytes: %w", size+align, err)
	}
	base := uintptr(unsafe.Pointer(&full[0]))
	start := format.AlignUp(base, align)
	trackMapping(start, full)
	return Region{start: uint64(start), size: uint64(size), prot: prot}, nil
}

// Unmap releases the mapping behind r and resets r to the empty sentinel.
// The whole underlying allocation goes away at once, so every page and
// object inside the region must be dead by the time this is called.
// Unmapping the empty region is a no-op.
func (r *Region) Unmap() error {
	if r.IsEmpty() {
		return nil
	}
	full, ok := takeMapping(r.Start())
	if !ok {
		return fmt.Errorf("%w: start %#x", ErrNotMapped, r.Start())
	}
	if err := unix.Munmap(full); err != nil {
		return fmt.Errorf("region: munmap: %w", err)
	}
	*r = Region{}
	return nil
}

// Protect changes the protection of the mapped range. Protection applies at
// OS page granularity; r's start must be OS-page aligned, which holds for
// every region MapAligned returns.
func (r *Region) Protect(prot Prot) error {
	if r.IsEmpty() {
		return nil
	}
	p := unix.PROT_READ
	if prot.writable() {
		p |= unix.PROT_WRITE
	}
	if err := unix.Mprotect(r.Bytes(), p); err != nil {
		return fmt.Errorf("region: mprotect: %w", err)
	}
	r.prot = prot
	return nil
}
