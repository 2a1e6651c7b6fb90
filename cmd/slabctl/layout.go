package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/internal/format"
	"github.com/joshuapare/slabkit/slab"
)

var (
	layoutSize  uint64
	layoutAlign uint64
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().Uint64Var(&layoutSize, "size", 64, "Object size in bytes")
	cmd.Flags().Uint64Var(&layoutAlign, "align", 8, "Object alignment (power of two)")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print page geometry and slot capacity",
		Long: `The layout command prints the binary geometry every page shares: where
the region handle, heap tag, list links, and occupancy bitfield sit at the
page tail, and how many slots each page size yields for an object layout.

The slot counts come from driving the real first-fit scan over a fresh
occupancy tracker, so they reflect the metadata cutoff and alignment rules
exactly.

Example:
  slabctl layout
  slabctl layout --size 128 --align 16
  slabctl layout --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
	return cmd
}

// PageGeometry describes one page size for reporting.
type PageGeometry struct {
	PageSize       int
	DataSize       int
	MetadataSize   int
	RegionOffset   int
	HeapIDOffset   int
	NextOffset     int
	PrevOffset     int
	BitfieldOffset int
	Slots          int
}

func runLayout() error {
	l, err := slab.NewLayout(uintptr(layoutSize), uintptr(layoutAlign))
	if err != nil {
		return err
	}

	geos := []PageGeometry{
		geometryFor(format.PageSize8K, l),
		geometryFor(format.PageSize2M, l),
	}

	if jsonOut {
		return printJSON(struct {
			ObjectSize  uint64
			ObjectAlign uint64
			Pages       []PageGeometry
		}{layoutSize, layoutAlign, geos})
	}

	printInfo("Object layout: %d bytes, %d-byte aligned\n\n", layoutSize, layoutAlign)
	for _, g := range geos {
		printInfo("Page %s:\n", formatBytes(int64(g.PageSize)))
		printInfo("  data area:    %d bytes\n", g.DataSize)
		printInfo("  metadata:     %d bytes at offset %d\n", g.MetadataSize, g.RegionOffset)
		printInfo("    region handle at +%d\n", g.RegionOffset)
		printInfo("    heap tag      at +%d\n", g.HeapIDOffset)
		printInfo("    next link     at +%d\n", g.NextOffset)
		printInfo("    prev link     at +%d\n", g.PrevOffset)
		printInfo("    bitfield      at +%d\n", g.BitfieldOffset)
		printInfo("  slots:        %d objects\n\n", g.Slots)
	}
	return nil
}

func geometryFor(pageSize int, l slab.Layout) PageGeometry {
	return PageGeometry{
		PageSize:       pageSize,
		DataSize:       pageSize - format.MetadataSize,
		MetadataSize:   format.MetadataSize,
		RegionOffset:   format.RegionOffset(pageSize),
		HeapIDOffset:   format.HeapIDOffset(pageSize),
		NextOffset:     format.NextOffset(pageSize),
		PrevOffset:     format.PrevOffset(pageSize),
		BitfieldOffset: format.BitfieldOffset(pageSize),
		Slots:          slotCapacity(uintptr(pageSize), l),
	}
}

// slotCapacity counts how many objects the real first-fit scan hands out
// of a page of the given size, for a page based at a self-aligned address.
func slotCapacity(pageSize uintptr, l slab.Layout) int {
	var b slab.Bitfield
	b.Initialize(l.Size, pageSize-format.MetadataSize)
	count := 0
	for {
		idx, _, ok := b.FirstFit(0, l, pageSize, format.MetadataSize)
		if !ok {
			return count
		}
		b.SetBit(idx)
		count++
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.0f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
