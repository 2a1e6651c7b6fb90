package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect drains an iterator into a slice for order assertions.
func collect(l *PageList[*Page8K]) []*Page8K {
	var out []*Page8K
	for it := l.Iter(); ; {
		page, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, page)
	}
}

// newTestPages commissions n independent pages tagged with their index.
func newTestPages(t testing.TB, n int) []*Page8K {
	t.Helper()
	pages := make([]*Page8K, n)
	for i := range pages {
		pages[i] = newTestPage8K(t, uint64(i))
	}
	return pages
}

// TestPageList_InsertFrontMakesNewHead verifies LIFO ordering and the
// head/tail link invariants.
func TestPageList_InsertFrontMakesNewHead(t *testing.T) {
	ps := newTestPages(t, 2)
	var l PageList[*Page8K]

	l.InsertFront(ps[0])
	l.InsertFront(ps[1])

	require.Equal(t, 2, l.Len())
	require.Equal(t, []*Page8K{ps[1], ps[0]}, collect(&l))

	assert.True(t, ps[1].Prev().IsNone(), "head has no prev")
	assert.True(t, ps[0].Next().IsNone(), "tail has no next")
}

// TestPageList_RemoveInterior splices out a middle page and checks both
// neighbors get rewired and the removed page leaves unlinked.
func TestPageList_RemoveInterior(t *testing.T) {
	ps := newTestPages(t, 3)
	var l PageList[*Page8K]
	for _, p := range ps {
		l.InsertFront(p)
	}
	// List is now [ps[2], ps[1], ps[0]].

	l.Remove(ps[1])

	require.Equal(t, 2, l.Len())
	require.Equal(t, []*Page8K{ps[2], ps[0]}, collect(&l))

	next, ok := ps[2].Next().Resolve()
	require.True(t, ok)
	require.Same(t, ps[0], next)
	prev, ok := ps[0].Prev().Resolve()
	require.True(t, ok)
	require.Same(t, ps[2], prev)

	assert.True(t, ps[1].Next().IsNone(), "removed page must leave unlinked")
	assert.True(t, ps[1].Prev().IsNone())
}

// TestPageList_RemoveHead verifies head removal promotes the next page.
func TestPageList_RemoveHead(t *testing.T) {
	ps := newTestPages(t, 3)
	var l PageList[*Page8K]
	for _, p := range ps {
		l.InsertFront(p)
	}

	l.Remove(ps[2])

	require.Equal(t, []*Page8K{ps[1], ps[0]}, collect(&l))
	assert.True(t, ps[1].Prev().IsNone(), "promoted head has no prev")
}

// TestPageList_RemoveTail verifies tail removal clears the new tail's next.
func TestPageList_RemoveTail(t *testing.T) {
	ps := newTestPages(t, 3)
	var l PageList[*Page8K]
	for _, p := range ps {
		l.InsertFront(p)
	}

	l.Remove(ps[0])

	require.Equal(t, []*Page8K{ps[2], ps[1]}, collect(&l))
	assert.True(t, ps[1].Next().IsNone(), "new tail has no next")
}

// TestPageList_RemoveOnly empties a single-element list.
func TestPageList_RemoveOnly(t *testing.T) {
	ps := newTestPages(t, 1)
	var l PageList[*Page8K]
	l.InsertFront(ps[0])

	l.Remove(ps[0])

	require.Equal(t, 0, l.Len())
	require.Empty(t, collect(&l))
	_, ok := l.Pop()
	require.False(t, ok)
}

// TestPageList_PopDrainsLIFO pops every page and verifies order, link
// hygiene, and the empty-list answer.
func TestPageList_PopDrainsLIFO(t *testing.T) {
	ps := newTestPages(t, 3)
	var l PageList[*Page8K]
	for _, p := range ps {
		l.InsertFront(p)
	}

	for i := 2; i >= 0; i-- {
		page, ok := l.Pop()
		require.True(t, ok)
		require.Same(t, ps[i], page)
		require.True(t, page.Next().IsNone(), "popped page must leave unlinked")
		require.True(t, page.Prev().IsNone())
	}

	require.Equal(t, 0, l.Len())
	_, ok := l.Pop()
	require.False(t, ok)
}

// TestPageList_ContainsIsIdentity verifies membership compares pages by
// address, not by content.
func TestPageList_ContainsIsIdentity(t *testing.T) {
	ps := newTestPages(t, 2)
	var l PageList[*Page8K]
	l.InsertFront(ps[0])

	// Same tag, same emptiness, different page: still not a member.
	ps[1].SetHeapID(ps[0].HeapID())

	require.True(t, l.Contains(ps[0]))
	require.False(t, l.Contains(ps[1]))
}

// TestPageList_IterIsSinglePass verifies exhaustion is sticky and a fresh
// iterator restarts from the head.
func TestPageList_IterIsSinglePass(t *testing.T) {
	ps := newTestPages(t, 2)
	var l PageList[*Page8K]
	l.InsertFront(ps[0])
	l.InsertFront(ps[1])

	it := l.Iter()
	for range 2 {
		_, ok := it.Next()
		require.True(t, ok)
	}
	for range 3 {
		_, ok := it.Next()
		require.False(t, ok, "exhausted iterator stays exhausted")
	}

	page, ok := l.Iter().Next()
	require.True(t, ok)
	require.Same(t, ps[1], page)
}

// TestPageList_MovesBetweenLists walks a page through the full/partial
// list shuffle an allocator performs as occupancy changes.
func TestPageList_MovesBetweenLists(t *testing.T) {
	ps := newTestPages(t, 2)
	var partial, full PageList[*Page8K]
	partial.InsertFront(ps[0])
	partial.InsertFront(ps[1])

	// ps[1] fills up: move it to the full list.
	partial.Remove(ps[1])
	full.InsertFront(ps[1])

	require.Equal(t, 1, partial.Len())
	require.Equal(t, 1, full.Len())
	require.False(t, partial.Contains(ps[1]))
	require.True(t, full.Contains(ps[1]))

	// An object frees up: move it back.
	full.Remove(ps[1])
	partial.InsertFront(ps[1])

	require.Equal(t, 0, full.Len())
	require.Equal(t, []*Page8K{ps[1], ps[0]}, collect(&partial))
}
