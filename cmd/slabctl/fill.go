package main

import (
	"fmt"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/region"
	"github.com/joshuapare/slabkit/slab"
)

var (
	fillSize  uint64
	fillAlign uint64
	fillPages int
	fillLarge bool
)

func init() {
	cmd := newFillCmd()
	cmd.Flags().Uint64Var(&fillSize, "size", 64, "Object size in bytes")
	cmd.Flags().Uint64Var(&fillAlign, "align", 8, "Object alignment (power of two)")
	cmd.Flags().IntVar(&fillPages, "pages", 4, "Number of pages to commission")
	cmd.Flags().BoolVar(&fillLarge, "large", false, "Use 2 MiB pages instead of 8 KiB")
	rootCmd.AddCommand(cmd)
}

func newFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Map real pages and fill them to capacity",
		Long: `The fill command maps self-aligned pages, commissions them, and
allocates objects of the given layout until every page reports no space.
It prints per-page and aggregate occupancy, then decommissions and unmaps
everything.

Example:
  slabctl fill
  slabctl fill --size 128 --align 16 --pages 8
  slabctl fill --large --size 4096 --align 4096`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill()
		},
	}
	return cmd
}

// fillPage is the slice of the page contract the fill loop drives:
// allocation plus the decommission path.
type fillPage[P comparable] interface {
	slab.AllocablePage[P]
	Allocate(slab.Layout) unsafe.Pointer
	DataSize() uintptr
	RetrieveRegion() region.Region
}

func runFill() error {
	l, err := slab.NewLayout(uintptr(fillSize), uintptr(fillAlign))
	if err != nil {
		return err
	}
	if fillPages < 1 {
		return fmt.Errorf("need at least one page, got %d", fillPages)
	}

	if fillLarge {
		return fillAndReport(l, fillPages, slab.PageSize2M,
			func(r region.Region) (*slab.LargePage2M, error) { return slab.NewLargePage2M(r, 1) })
	}
	return fillAndReport(l, fillPages, slab.PageSize8K,
		func(r region.Region) (*slab.Page8K, error) { return slab.NewPage8K(r, 1) })
}

func fillAndReport[P fillPage[P]](l slab.Layout, n int, pageSize uintptr, newPage func(region.Region) (P, error)) error {
	commissioned := make([]P, 0, n)
	defer func() {
		for _, p := range commissioned {
			r := p.RetrieveRegion()
			if err := r.Unmap(); err != nil {
				printError("unmap %#x: %v\n", p.Base(), err)
			}
		}
	}()

	var list slab.PageList[P]
	perPage := make([]slab.PageStats, 0, n)
	total := 0
	for i := range n {
		r, err := region.MapAligned(pageSize, pageSize, region.ReadWrite)
		if err != nil {
			return fmt.Errorf("map page %d: %w", i, err)
		}
		p, err := newPage(r)
		if err != nil {
			_ = r.Unmap()
			return fmt.Errorf("commission page %d: %w", i, err)
		}
		commissioned = append(commissioned, p)
		p.Bitfield().Initialize(l.Size, p.DataSize())
		printVerbose("page %d mapped at %#x\n", i, p.Base())

		count := 0
		for p.Allocate(l) != nil {
			count++
		}
		total += count
		list.InsertFront(p)
		perPage = append(perPage, slab.PageStatsFor(p, l))
	}

	agg := slab.ListStatsFor(&list, l)
	if jsonOut {
		return printJSON(struct {
			Pages []slab.PageStats
			Total slab.ListStats
		}{perPage, agg})
	}
	for i, stats := range perPage {
		printInfo("page %d @ %#x: %s\n", i, commissioned[i].Base(), stats)
	}
	printInfo("\ntotal: %s (%d objects)\n", agg, total)
	return nil
}
