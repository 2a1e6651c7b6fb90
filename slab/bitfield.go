package slab

import (
	"math/bits"

	"github.com/joshuapare/slabkit/internal/format"
)

// Bitfield is a page's occupancy tracker: bit i covers the object slot at
// page base + i×objectSize, set meaning allocated or permanently unusable.
// The physical width is always format.BitfieldBits slots regardless of
// object size; Initialize marks every slot past the page's real capacity
// so those bits are never handed out.
//
// The tracker is plain state with no locking. A page and its tracker are
// mutated under whatever exclusion the caller maintains for the list the
// page lives in; trackers of distinct pages never interact.
type Bitfield [format.BitfieldWords]uint64

// Initialize prepares the tracker for objects of objectSize bytes in a
// data region of capacity bytes: every slot starts allocated, then the
// lowest min(capacity/objectSize, BitfieldBits) slots are freed. A
// capacity smaller than one object frees nothing, so the page immediately
// reports full for that size.
func (b *Bitfield) Initialize(objectSize, capacity uintptr) {
	for i := range b {
		b[i] = ^uint64(0)
	}
	relevant := int(capacity / objectSize)
	if relevant > format.BitfieldBits {
		relevant = format.BitfieldBits
	}
	for i := 0; i < relevant; i++ {
		b.ClearBit(i)
	}
}

// FirstFit returns the lowest free slot whose address satisfies l.Align,
// scanning words in increasing order.
//
// Slot offsets grow monotonically with slot index and the metadata block
// sits at the page tail, so the first candidate offset that would reach
// into metadata ends the entire search - not just the current word. That
// ordering assumption is load-bearing; a tracker layout that breaks it
// would hand out metadata bytes as objects.
//
// A word whose lowest zero bit fails the alignment check is skipped as a
// whole; the scan resumes at the next word.
func (b *Bitfield) FirstFit(base uintptr, l Layout, pageSize, metadataSize uintptr) (int, uintptr, bool) {
	if l.Size > pageSize-metadataSize {
		return 0, 0, false
	}
	limit := pageSize - metadataSize - l.Size
	for word, val := range b {
		if val == ^uint64(0) {
			continue
		}
		free := bits.TrailingZeros64(^val)
		idx := word*64 + free
		offset := uintptr(idx) * l.Size
		if offset > limit {
			return 0, 0, false
		}
		addr := base + offset
		if addr%l.Align == 0 && val&(uint64(1)<<free) == 0 {
			return idx, addr, true
		}
	}
	return 0, 0, false
}

// IsAllocated reports whether slot idx is marked allocated.
func (b *Bitfield) IsAllocated(idx int) bool {
	return b[idx/64]&(uint64(1)<<(idx%64)) != 0
}

// SetBit marks slot idx allocated.
func (b *Bitfield) SetBit(idx int) {
	b[idx/64] |= uint64(1) << (idx % 64)
}

// ClearBit marks slot idx free.
func (b *Bitfield) ClearBit(idx int) {
	b[idx/64] &^= uint64(1) << (idx % 64)
}

// IsFull reports whether every tracked slot is allocated.
func (b *Bitfield) IsFull() bool {
	for _, val := range b {
		if val != ^uint64(0) {
			return false
		}
	}
	return true
}

// AllFree reports whether every slot below relevantBits is free. Bits at
// or above relevantBits are the padding Initialize permanently allocated;
// they are ignored here even though they are set.
func (b *Bitfield) AllFree(relevantBits int) bool {
	for word, val := range b {
		low := word * 64
		if relevantBits >= low+64 {
			if val != 0 {
				return false
			}
			continue
		}
		if relevantBits <= low {
			return true
		}
		mask := (uint64(1) << (relevantBits - low)) - 1
		return val&mask == 0
	}
	return true
}

// Allocated returns the number of slots below relevantBits currently
// marked allocated, using the same boundary rule as AllFree.
func (b *Bitfield) Allocated(relevantBits int) int {
	n := 0
	for word, val := range b {
		low := word * 64
		if relevantBits >= low+64 {
			n += bits.OnesCount64(val)
			continue
		}
		if relevantBits <= low {
			break
		}
		mask := (uint64(1) << (relevantBits - low)) - 1
		n += bits.OnesCount64(val & mask)
		break
	}
	return n
}
