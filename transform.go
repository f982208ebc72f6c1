package linkedqueue

import (
	"github.com/timzifer/linkedqueue/internal/list"
)

// DeleteMid deletes the element at index ⌊n/2⌋ (0-based) of an n-element
// queue. It returns false if q is nil or empty.
func (q *Queue) DeleteMid() bool {
	if q == nil || list.Empty(&q.head) {
		return false
	}

	anchor := &q.head
	slow, fast := anchor.Next(), anchor.Next()
	for fast != anchor && fast.Next() != anchor {
		fast = fast.Next().Next()
		slow = slow.Next()
	}

	q.delete(slow)
	q.opts.metrics.RecordDelete(1)
	return true
}

// DeleteDup deletes every element whose text occurs more than once, keeping
// only values that occur exactly once. The queue must already be sorted.
// It returns false only if q is nil.
func (q *Queue) DeleteDup() bool {
	if q == nil {
		return false
	}
	anchor := &q.head
	if list.Empty(anchor) || list.Singular(anchor) {
		return true
	}

	deleted := 0
	dup := false
	for l := range list.EachSafe(anchor) {
		next := l.Next()
		switch {
		case next != anchor && next.Entry().value == l.Entry().value:
			q.delete(l)
			deleted++
			dup = true
		case dup:
			q.delete(l)
			deleted++
			dup = false
		}
	}
	q.opts.metrics.RecordDelete(deleted)
	return true
}

// Swap exchanges every two adjacent elements: (0,1), (2,3), ... An odd last
// element stays where it is.
func (q *Queue) Swap() {
	if q == nil || list.Empty(&q.head) || list.Singular(&q.head) {
		return
	}
	anchor := &q.head
	for l := anchor.Next(); l != anchor && l.Next() != anchor; l = l.Next() {
		second := l.Next()
		list.Unlink(second)
		list.InsertBefore(l, second)
	}
}

// Reverse reverses the order of the elements without allocating or
// releasing any of them.
func (q *Queue) Reverse() {
	if q == nil || list.Empty(&q.head) || list.Singular(&q.head) {
		return
	}
	for l := range list.EachSafe(&q.head) {
		list.MoveToFront(l, &q.head)
	}
}
