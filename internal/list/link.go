// Package list provides an intrusive circular doubly linked list.
//
// A Link is embedded into the structure it chains together. The list itself
// is represented by one anchor Link (the sentinel) that carries no entry and
// is never handed out as data. Links never own what they point to: the
// structure embedding the anchor owns every member, and a member that has been
// unlinked belongs to whoever unlinked it.
//
// A zero Link is not valid. Call Init (for anchors) or Bind (for members)
// before linking it anywhere.
package list

import "iter"

// Link is a list membership record for an entry of type E.
type Link[E any] struct {
	next, prev *Link[E]
	entry      *E
}

// Init makes l an empty one-node cycle.
func (l *Link[E]) Init() *Link[E] {
	l.next = l
	l.prev = l
	return l
}

// Bind records entry as the structure that embeds l and initialises l.
func (l *Link[E]) Bind(entry *E) *Link[E] {
	l.entry = entry
	return l.Init()
}

// Entry returns the structure embedding l, or nil for an anchor.
func (l *Link[E]) Entry() *E { return l.entry }

func (l *Link[E]) Next() *Link[E] { return l.next }
func (l *Link[E]) Prev() *Link[E] { return l.prev }

// Linked reports whether l is part of a cycle with other links.
func (l *Link[E]) Linked() bool {
	return l.next != nil && l.next != l
}

func link[E any](l, prev, next *Link[E]) {
	next.prev = l
	l.next = next
	l.prev = prev
	prev.next = l
}

// InsertAfter links l right after at.
func InsertAfter[E any](at, l *Link[E]) {
	link(l, at, at.next)
}

// InsertBefore links l right before at.
func InsertBefore[E any](at, l *Link[E]) {
	link(l, at.prev, at)
}

// Unlink removes l from its cycle and turns it back into a self-loop.
// Nothing is released.
func Unlink[E any](l *Link[E]) {
	l.prev.next = l.next
	l.next.prev = l.prev
	l.Init()
}

// MoveToFront unlinks l and inserts it right after anchor.
func MoveToFront[E any](l, anchor *Link[E]) {
	Unlink(l)
	InsertAfter(anchor, l)
}

// Empty reports whether anchor has no members.
func Empty[E any](anchor *Link[E]) bool {
	return anchor.next == anchor
}

// Singular reports whether anchor has exactly one member.
func Singular[E any](anchor *Link[E]) bool {
	return !Empty(anchor) && anchor.next == anchor.prev
}

// First returns the first member of anchor, or nil if there is none.
func First[E any](anchor *Link[E]) *Link[E] {
	if Empty(anchor) {
		return nil
	}
	return anchor.next
}

// Last returns the last member of anchor, or nil if there is none.
func Last[E any](anchor *Link[E]) *Link[E] {
	if Empty(anchor) {
		return nil
	}
	return anchor.prev
}

// Each walks the members of anchor from first to last.
// The loop body must not unlink or move the current link; use EachSafe for that.
func Each[E any](anchor *Link[E]) iter.Seq[*Link[E]] {
	return func(yield func(*Link[E]) bool) {
		for l := anchor.next; l != anchor; l = l.next {
			if !yield(l) {
				return
			}
		}
	}
}

// EachSafe walks the members of anchor from first to last. The successor of
// the current link is captured before the loop body runs, so the body may
// unlink, release or move the current link. It must not touch the successor.
func EachSafe[E any](anchor *Link[E]) iter.Seq[*Link[E]] {
	return func(yield func(*Link[E]) bool) {
		for l, next := anchor.next, anchor.next.next; l != anchor; l, next = next, next.next {
			if !yield(l) {
				return
			}
		}
	}
}
