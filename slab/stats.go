package slab

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/slabkit/internal/format"
)

// printer renders stats summaries with grouped digits (8,064 rather than
// 8064), which keeps large-page numbers readable.
var printer = message.NewPrinter(language.English)

// PageStats is a point-in-time occupancy snapshot of a single page for a
// given object layout. It is computed from the bitfield, so it reflects
// slot accounting, not which addresses are live.
type PageStats struct {
	// Slots is how many objects of the layout's size fit in the data area,
	// capped at the bitfield's tracking capacity.
	Slots int

	// Allocated is the number of slots currently marked in-use.
	Allocated int

	// Free is Slots minus Allocated.
	Free int

	// DataBytes is the size of the page's data area.
	DataBytes uintptr

	// UsedBytes is Allocated times the object size.
	UsedBytes uintptr
}

// ListStats aggregates PageStats across every page in a list.
type ListStats struct {
	Pages     int
	Slots     int
	Allocated int
	DataBytes uintptr
	UsedBytes uintptr
}

// PageStatsFor computes occupancy for one page under layout l.
//
// The slot count is derived from the layout, not recorded in the page, so
// calling this with a different layout than the page was initialized for
// gives a nonsense answer: initialization padding bits land below the
// computed slot count and get counted as allocations.
func PageStatsFor[P AllocablePage[P]](p P, l Layout) PageStats {
	data := p.Size() - p.MetadataSize()
	slots := int(data / l.Size)
	if slots > format.BitfieldBits {
		slots = format.BitfieldBits
	}
	allocated := p.Bitfield().Allocated(slots)
	return PageStats{
		Slots:     slots,
		Allocated: allocated,
		Free:      slots - allocated,
		DataBytes: data,
		UsedBytes: uintptr(allocated) * l.Size,
	}
}

// ListStatsFor sums PageStatsFor over every page in l.
func ListStatsFor[P AllocablePage[P]](list *PageList[P], l Layout) ListStats {
	var out ListStats
	for it := list.Iter(); ; {
		page, ok := it.Next()
		if !ok {
			break
		}
		ps := PageStatsFor(page, l)
		out.Pages++
		out.Slots += ps.Slots
		out.Allocated += ps.Allocated
		out.DataBytes += ps.DataBytes
		out.UsedBytes += ps.UsedBytes
	}
	return out
}

// String returns a one-line human-readable summary.
func (s PageStats) String() string {
	return printer.Sprintf("%d/%d slots (%d free), %d/%d bytes, %.1f%% full",
		s.Allocated, s.Slots, s.Free, s.UsedBytes, s.DataBytes, s.fullness())
}

// String returns a one-line human-readable summary.
func (s ListStats) String() string {
	return printer.Sprintf("%d pages: %d/%d slots, %d/%d bytes, %.1f%% full",
		s.Pages, s.Allocated, s.Slots, s.UsedBytes, s.DataBytes, s.fullness())
}

func (s PageStats) fullness() float64 {
	if s.Slots == 0 {
		return 0
	}
	return 100 * float64(s.Allocated) / float64(s.Slots)
}

func (s ListStats) fullness() float64 {
	if s.Slots == 0 {
		return 0
	}
	return 100 * float64(s.Allocated) / float64(s.Slots)
}
