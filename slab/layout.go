package slab

import (
	"fmt"

	"github.com/joshuapare/slabkit/internal/format"
)

// Layout describes one allocation request: the object's size in bytes and
// the address alignment it requires. Alignment applies to the absolute
// address handed out, not the in-page offset.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// NewLayout builds a Layout, rejecting a zero size or an alignment that is
// not a power of two. A zero-size request has no meaningful slot index, so
// it is a caller error rather than something first-fit handles.
func NewLayout(size, align uintptr) (Layout, error) {
	if size == 0 || !format.IsPowerOfTwo(align) {
		return Layout{}, fmt.Errorf("%w: size %d, align %d", ErrBadLayout, size, align)
	}
	return Layout{Size: size, Align: align}, nil
}

// MustLayout is NewLayout for layouts known valid ahead of time; it panics
// on invalid input.
func MustLayout(size, align uintptr) Layout {
	l, err := NewLayout(size, align)
	if err != nil {
		panic(err)
	}
	return l
}
