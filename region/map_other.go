//go:build !linux && !darwin

package region

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/slabkit/internal/format"
)

// MapAligned allocates a heap buffer, pins it in the mapping registry, and
// returns an aligned window into it. Platforms without mmap get no hardware
// protection; the recorded Prot still drives IsWritable, so page validation
// behaves the same everywhere.
func MapAligned(size, align uintptr, prot Prot) (Region, error) {
	if size == 0 || !format.IsPowerOfTwo(align) {
		return Region{}, fmt.Errorf("%w: size %d, align %d", ErrBadMapSize, size, align)
	}
	full := make([]byte, size+align)
	base := uintptr(unsafe.Pointer(&full[0]))
	start := format.AlignUp(base, align)
	trackMapping(start, full)
	return Region{start: uint64(start), size: uint64(size), prot: prot}, nil
}

// Unmap unpins the buffer behind r so the collector can reclaim it, and
// resets r to the empty sentinel. Unmapping the empty region is a no-op.
func (r *Region) Unmap() error {
	if r.IsEmpty() {
		return nil
	}
	if _, ok := takeMapping(r.Start()); !ok {
		return fmt.Errorf("%w: start %#x", ErrNotMapped, r.Start())
	}
	*r = Region{}
	return nil
}

// Protect records the new protection. There is no hardware enforcement on
// this path, but IsWritable and page validation honor the recorded value.
func (r *Region) Protect(prot Prot) error {
	if r.IsEmpty() {
		return nil
	}
	r.prot = prot
	return nil
}
