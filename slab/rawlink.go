package slab

// Rawlink is the nullable, non-owning reference pages are stitched into
// lists with. Instantiated with a page pointer type it is exactly one
// pointer word, which is what lets it live at a fixed offset inside page
// metadata. The zero value is the null link.
//
// A Rawlink carries no liveness information: Resolve blindly trusts that
// the target still exists. The owning PageList mediates every link
// mutation, and the caller keeps a page mapped for as long as anything
// links to it.
type Rawlink[P comparable] struct {
	p P
}

// Set points the link at target.
func (l *Rawlink[P]) Set(target P) {
	l.p = target
}

// Clear resets the link to null.
func (l *Rawlink[P]) Clear() {
	var zero P
	l.p = zero
}

// IsNone reports whether the link points at nothing.
func (l *Rawlink[P]) IsNone() bool {
	var zero P
	return l.p == zero
}

// Resolve returns the link's target, with ok false for the null link.
func (l *Rawlink[P]) Resolve() (P, bool) {
	var zero P
	if l.p == zero {
		return zero, false
	}
	return l.p, true
}

// Take returns the current link value and leaves the null link behind.
func (l *Rawlink[P]) Take() Rawlink[P] {
	out := *l
	*l = Rawlink[P]{}
	return out
}
