// Package linkedqueue provides a queue of strings kept in an intrusive
// circular doubly linked list anchored by a sentinel.
//
// Besides insertion and removal at both ends the queue supports structural
// transforms that only rearrange or drop existing elements: DeleteMid,
// DeleteDup, Swap, Reverse and an in-place merge Sort.
//
// Removing an element only unlinks it. The caller then owns the element and
// gives its storage back with Release. Deleting (DeleteMid, DeleteDup, Free)
// unlinks and releases in one step.
//
// A nil *Queue is valid for every method and behaves like a queue that could
// not be created: inserts fail, removals return nil and transforms do nothing.
//
// A Queue is not safe for concurrent use. Callers sharing one must serialise
// access themselves.
package linkedqueue
