package linkedqueue

import (
	"unsafe"

	"github.com/timzifer/linkedqueue/internal/list"
)

const elementSize = int(unsafe.Sizeof(Element{}))

// Element is a queue member owning one string.
type Element struct {
	link     list.Link[Element]
	value    string
	opts     *options
	released bool
}

// Value returns the element's text.
func (e *Element) Value() string {
	return e.value
}

// Release gives the element's storage back. The element must not be used
// afterwards. Releasing nil is a no-op; releasing a linked element or
// releasing twice panics.
func (e *Element) Release() {
	if e == nil {
		return
	}
	if e.released {
		panic("linkedqueue: element released twice")
	}
	if e.link.Linked() {
		panic("linkedqueue: release of a linked element")
	}
	e.released = true
	e.opts.allocator.Free(BlockText, textSize(e.value))
	e.opts.allocator.Free(BlockElement, elementSize)
	e.opts.metrics.RecordRelease()
	e.value = ""
}

// textSize is the size of the text block including its terminator.
func textSize(s string) int {
	return len(s) + 1
}
