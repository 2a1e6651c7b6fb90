package slab

// PageList is an intrusive doubly-linked list of pages. The zero value is
// an empty, usable list. The list owns no page memory: it only rewires the
// next/prev links embedded in page metadata, so a page must stay mapped
// for as long as it is linked.
//
// A list and the pages linked into it form one logical resource. Callers
// serialize every structural operation on a given list; two lists never
// share a page, and a page is a member of at most one list at a time
// (caller discipline, the type does not police it).
type PageList[P AllocablePage[P]] struct {
	head     P
	elements int
}

// Len returns the number of linked pages. It always equals the number of
// pages reachable from the head by following next links.
func (l *PageList[P]) Len() int {
	return l.elements
}

// InsertFront links page in as the new head. The page must not be a member
// of any list; it joins with both links clear and its prev stays clear for
// as long as it remains the head.
func (l *PageList[P]) InsertFront(page P) {
	var zero P
	page.Prev().Clear()
	if l.head != zero {
		l.head.Prev().Set(page)
		page.Next().Set(l.head)
	}
	l.head = page
	l.elements++
	debugLogf("list: insert %#x, len %d", page.Base(), l.elements)
}

// Remove splices page out of the list. The page must currently be a
// member (Contains answers that when the caller cannot prove it). The
// removed page leaves with both links cleared, so it is never mistaken
// for still-linked.
func (l *PageList[P]) Remove(page P) {
	prev, hasPrev := page.Prev().Resolve()
	next, hasNext := page.Next().Resolve()
	switch {
	case hasPrev && hasNext:
		prev.Next().Set(next)
		next.Prev().Set(prev)
	case hasPrev:
		prev.Next().Clear()
	case hasNext:
		next.Prev().Clear()
		l.head = next
	default:
		var zero P
		l.head = zero
	}
	page.Next().Clear()
	page.Prev().Clear()
	l.elements--
	debugLogf("list: remove %#x, len %d", page.Base(), l.elements)
}

// Pop unlinks and returns the head page, with ok false on an empty list.
// The popped page leaves with both links cleared, and the new head's prev
// is reset to the null link.
func (l *PageList[P]) Pop() (P, bool) {
	var zero P
	if l.head == zero {
		return zero, false
	}
	page := l.head
	if next, ok := page.Next().Resolve(); ok {
		next.Prev().Clear()
		l.head = next
	} else {
		l.head = zero
	}
	page.Next().Clear()
	page.Prev().Clear()
	l.elements--
	debugLogf("list: pop %#x, len %d", page.Base(), l.elements)
	return page, true
}

// Contains reports whether candidate is linked in this list. Membership is
// identity: the scan compares page addresses, never contents.
func (l *PageList[P]) Contains(candidate P) bool {
	for it := l.Iter(); ; {
		page, ok := it.Next()
		if !ok {
			return false
		}
		if page == candidate {
			return true
		}
	}
}

// Iter returns a fresh iterator positioned at the head. Iterators are
// lazy, forward-only, and single-pass: create one per traversal. Do not
// mutate the list structurally while an iterator is live.
func (l *PageList[P]) Iter() *PageIter[P] {
	return &PageIter[P]{next: l.head}
}

// PageIter walks a PageList front to back.
type PageIter[P AllocablePage[P]] struct {
	next P
}

// Next returns the next page, with ok false once the list is exhausted.
// An exhausted iterator stays exhausted.
func (it *PageIter[P]) Next() (P, bool) {
	var zero P
	page := it.next
	if page == zero {
		return zero, false
	}
	if n, ok := page.Next().Resolve(); ok {
		it.next = n
	} else {
		it.next = zero
	}
	return page, true
}
