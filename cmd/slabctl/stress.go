package main

import (
	"fmt"
	"math/rand"
	"time"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slabkit/region"
	"github.com/joshuapare/slabkit/slab"
)

var (
	stressOps   int
	stressSize  uint64
	stressAlign uint64
	stressPages int
	stressSeed  int64
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of operations to run")
	cmd.Flags().Uint64Var(&stressSize, "size", 64, "Object size in bytes")
	cmd.Flags().Uint64Var(&stressAlign, "align", 8, "Object alignment (power of two)")
	cmd.Flags().IntVar(&stressPages, "pages", 8, "Number of pages to churn across")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed, for reproducible runs")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run randomized allocate/free churn across page lists",
		Long: `The stress command commissions a set of pages and performs random
allocations and frees against them, moving each page between empty,
partial, and full lists as its occupancy changes. Occupancy bookkeeping is
cross-checked against an independent shadow of every live object, so any
drift in the bitfield or list machinery surfaces as an error.

Example:
  slabctl stress
  slabctl stress --ops 1000000 --pages 16 --seed 7
  slabctl stress --size 512 --align 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

// stressPage pairs a page with the shadow of its live objects.
type stressPage struct {
	page  *slab.Page8K
	ptrs  []unsafe.Pointer
	state int
}

// Occupancy classes a page moves through.
const (
	stateEmpty = iota
	statePartial
	stateFull
)

type stressState struct {
	layout       slab.Layout
	slotsPerPage int
	pages        []*stressPage
	byPage       map[*slab.Page8K]*stressPage
	handles      []region.Region
	live         int

	empty   slab.PageList[*slab.Page8K]
	partial slab.PageList[*slab.Page8K]
	full    slab.PageList[*slab.Page8K]
}

func runStress() error {
	l, err := slab.NewLayout(uintptr(stressSize), uintptr(stressAlign))
	if err != nil {
		return err
	}
	if stressPages < 1 || stressOps < 1 {
		return fmt.Errorf("need at least one page and one op, got %d pages, %d ops", stressPages, stressOps)
	}

	st, err := newStressState(l, stressPages)
	if err != nil {
		return err
	}
	defer st.release()

	if st.slotsPerPage == 0 {
		return fmt.Errorf("object size %d does not fit an 8 KiB page", stressSize)
	}
	printVerbose("%d pages, %d slots each, seed %d\n", stressPages, st.slotsPerPage, stressSeed)

	rng := rand.New(rand.NewSource(stressSeed))
	allocs, frees := 0, 0
	start := time.Now()

	for op := range stressOps {
		doAlloc := rng.Intn(100) < 60
		if st.live == 0 {
			doAlloc = true
		}
		if st.partial.Len() == 0 && st.empty.Len() == 0 {
			doAlloc = false
		}

		if doAlloc {
			if err := st.allocOne(); err != nil {
				return fmt.Errorf("op %d: %w", op, err)
			}
			allocs++
		} else {
			if err := st.freeOne(rng); err != nil {
				return fmt.Errorf("op %d: %w", op, err)
			}
			frees++
		}

		if (op+1)%4096 == 0 {
			if err := st.check(); err != nil {
				return fmt.Errorf("op %d: %w", op, err)
			}
		}
	}
	elapsed := time.Since(start)

	if err := st.check(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(struct {
			Ops     int
			Allocs  int
			Frees   int
			Elapsed string
			Empty   slab.ListStats
			Partial slab.ListStats
			Full    slab.ListStats
		}{
			stressOps, allocs, frees, elapsed.String(),
			slab.ListStatsFor(&st.empty, l),
			slab.ListStatsFor(&st.partial, l),
			slab.ListStatsFor(&st.full, l),
		})
	}

	printInfo("stress: %d ops (%d allocs, %d frees) in %s, %.0f ops/sec\n",
		stressOps, allocs, frees, elapsed.Round(time.Millisecond), float64(stressOps)/elapsed.Seconds())
	printInfo("  empty:   %s\n", slab.ListStatsFor(&st.empty, l))
	printInfo("  partial: %s\n", slab.ListStatsFor(&st.partial, l))
	printInfo("  full:    %s\n", slab.ListStatsFor(&st.full, l))

	return st.teardown()
}

func newStressState(l slab.Layout, n int) (*stressState, error) {
	st := &stressState{
		layout: l,
		byPage: make(map[*slab.Page8K]*stressPage, n),
	}
	for i := range n {
		r, err := region.MapAligned(slab.PageSize8K, slab.PageSize8K, region.ReadWrite)
		if err != nil {
			st.release()
			return nil, fmt.Errorf("map page %d: %w", i, err)
		}
		p, err := slab.NewPage8K(r, uint64(i))
		if err != nil {
			st.release()
			_ = r.Unmap()
			return nil, fmt.Errorf("commission page %d: %w", i, err)
		}
		p.Bitfield().Initialize(l.Size, p.DataSize())

		sp := &stressPage{page: p, state: stateEmpty}
		st.pages = append(st.pages, sp)
		st.byPage[p] = sp
		st.handles = append(st.handles, region.FromRange(p.Base(), slab.PageSize8K, region.ReadWrite))
		st.empty.InsertFront(p)
	}
	st.slotsPerPage = slab.PageStatsFor(st.pages[0].page, l).Slots
	return st, nil
}

// allocOne takes a page from the partial list when one exists, otherwise
// from the empty list, claims one object, and refiles the page.
func (st *stressState) allocOne() error {
	source := &st.partial
	if source.Len() == 0 {
		source = &st.empty
	}
	page, ok := source.Iter().Next()
	if !ok {
		return fmt.Errorf("no page with free slots")
	}
	sp := st.byPage[page]

	ptr := page.Allocate(st.layout)
	if ptr == nil {
		return fmt.Errorf("page %#x in a non-full list refused an allocation", page.Base())
	}
	sp.ptrs = append(sp.ptrs, ptr)
	st.live++

	next := statePartial
	if page.IsFull() {
		next = stateFull
	}
	st.moveTo(sp, next)
	return nil
}

// freeOne releases a random live object, recovering the owning page from
// the raw address rather than trusting the shadow, and refiles the page.
func (st *stressState) freeOne(rng *rand.Rand) error {
	candidates := st.pages[:0:0]
	for _, sp := range st.pages {
		if len(sp.ptrs) > 0 {
			candidates = append(candidates, sp)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("free requested with no live objects")
	}
	sp := candidates[rng.Intn(len(candidates))]

	i := rng.Intn(len(sp.ptrs))
	ptr := sp.ptrs[i]
	sp.ptrs[i] = sp.ptrs[len(sp.ptrs)-1]
	sp.ptrs = sp.ptrs[:len(sp.ptrs)-1]

	owner := slab.Page8KFromAddr(uintptr(ptr))
	if owner != sp.page {
		return fmt.Errorf("address %p resolves to page %#x, shadow says %#x", ptr, owner.Base(), sp.page.Base())
	}
	if err := owner.Deallocate(ptr, st.layout); err != nil {
		return err
	}
	st.live--

	next := statePartial
	if len(sp.ptrs) == 0 {
		next = stateEmpty
	}
	st.moveTo(sp, next)
	return nil
}

func (st *stressState) listFor(state int) *slab.PageList[*slab.Page8K] {
	switch state {
	case stateEmpty:
		return &st.empty
	case statePartial:
		return &st.partial
	default:
		return &st.full
	}
}

func (st *stressState) moveTo(sp *stressPage, state int) {
	if sp.state == state {
		return
	}
	st.listFor(sp.state).Remove(sp.page)
	st.listFor(state).InsertFront(sp.page)
	sp.state = state
}

// check cross-validates the bitfield occupancy and list membership of
// every page against the shadow.
func (st *stressState) check() error {
	total := 0
	for _, sp := range st.pages {
		got := slab.PageStatsFor(sp.page, st.layout).Allocated
		if got != len(sp.ptrs) {
			return fmt.Errorf("page %#x: bitfield says %d allocated, shadow says %d",
				sp.page.Base(), got, len(sp.ptrs))
		}
		if empty := sp.page.IsEmpty(st.slotsPerPage); empty != (len(sp.ptrs) == 0) {
			return fmt.Errorf("page %#x: IsEmpty=%v with %d live objects", sp.page.Base(), empty, len(sp.ptrs))
		}
		if !st.listFor(sp.state).Contains(sp.page) {
			return fmt.Errorf("page %#x missing from its occupancy list", sp.page.Base())
		}
		total += len(sp.ptrs)
	}
	if total != st.live {
		return fmt.Errorf("live count %d does not match shadow total %d", st.live, total)
	}
	if n := st.empty.Len() + st.partial.Len() + st.full.Len(); n != len(st.pages) {
		return fmt.Errorf("lists hold %d pages, commissioned %d", n, len(st.pages))
	}
	return nil
}

// teardown drains every remaining object, verifies the pages empty out,
// and decommissions them.
func (st *stressState) teardown() error {
	for _, sp := range st.pages {
		for _, ptr := range sp.ptrs {
			if err := sp.page.Deallocate(ptr, st.layout); err != nil {
				return err
			}
		}
		sp.ptrs = nil
		if !sp.page.IsEmpty(st.slotsPerPage) {
			return fmt.Errorf("page %#x not empty after drain", sp.page.Base())
		}
		r := sp.page.RetrieveRegion()
		if err := r.Unmap(); err != nil {
			return err
		}
	}
	return nil
}

// release unmaps whatever teardown has not already released. It works
// from detached handles so it never touches page memory, which may
// already be gone.
func (st *stressState) release() {
	for i := range st.handles {
		_ = st.handles[i].Unmap()
	}
}
