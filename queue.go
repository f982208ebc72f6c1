package linkedqueue

import (
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/timzifer/linkedqueue/internal/list"
)

const headSize = int(unsafe.Sizeof(Queue{}))

// Queue is a sentinel-anchored circular list of elements.
// The sentinel is always present; the queue is empty when it links to itself.
type Queue struct {
	head list.Link[Element]
	opts options
}

// New creates an empty queue. It returns nil if the allocator refuses the
// queue head.
func New(options ...Option) *Queue {
	opts := defaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	if !opts.allocator.Alloc(BlockHead, headSize) {
		opts.logger.Debug("queue allocation refused", zap.Int("size", headSize))
		return nil
	}

	q := &Queue{opts: opts}
	q.head.Init()
	return q
}

// Free releases every element still in the queue and then the queue itself.
// The queue must not be used afterwards. Free on nil is a no-op.
func (q *Queue) Free() {
	if q == nil {
		return
	}
	for l := range list.EachSafe(&q.head) {
		q.delete(l)
	}
	q.opts.allocator.Free(BlockHead, headSize)
}

// InsertHead adds a copy of s as the new first element.
// It returns false if q is nil or storage could not be allocated.
func (q *Queue) InsertHead(s string) bool {
	if q == nil {
		return false
	}
	e := q.newElement("insert_head", s)
	if e == nil {
		return false
	}
	list.InsertAfter(&q.head, &e.link)
	return true
}

// InsertTail adds a copy of s as the new last element.
// It returns false if q is nil or storage could not be allocated.
func (q *Queue) InsertTail(s string) bool {
	if q == nil {
		return false
	}
	e := q.newElement("insert_tail", s)
	if e == nil {
		return false
	}
	list.InsertBefore(&q.head, &e.link)
	return true
}

// newElement takes the element block and then the text block. If either is
// refused, whatever was taken is given back and nil is returned.
func (q *Queue) newElement(op string, s string) *Element {
	a := q.opts.allocator
	if !a.Alloc(BlockElement, elementSize) {
		q.refused(op, BlockElement, elementSize)
		return nil
	}
	if !a.Alloc(BlockText, textSize(s)) {
		a.Free(BlockElement, elementSize)
		q.refused(op, BlockText, textSize(s))
		return nil
	}

	e := &Element{value: strings.Clone(s), opts: &q.opts}
	e.link.Bind(e)
	q.opts.metrics.RecordInsert(true)
	return e
}

func (q *Queue) refused(op string, kind BlockKind, size int) {
	q.opts.metrics.RecordInsert(false)
	q.opts.logger.Debug("allocation refused",
		zap.String("op", op),
		zap.Stringer("kind", kind),
		zap.Int("size", size),
	)
}

// RemoveHead unlinks the first element and hands it to the caller, who must
// Release it. It returns nil if q is nil or empty.
//
// If sp is not empty, up to len(sp)-1 bytes of the element's text are copied
// into it and the rest of sp is zeroed, so sp always holds a NUL-terminated
// string.
func (q *Queue) RemoveHead(sp []byte) *Element {
	if q == nil {
		return nil
	}
	return q.remove(list.First(&q.head), sp)
}

// RemoveTail is RemoveHead for the last element.
func (q *Queue) RemoveTail(sp []byte) *Element {
	if q == nil {
		return nil
	}
	return q.remove(list.Last(&q.head), sp)
}

func (q *Queue) remove(l *list.Link[Element], sp []byte) *Element {
	if l == nil {
		return nil
	}
	e := l.Entry()
	copyText(sp, e.value)
	list.Unlink(l)
	q.opts.metrics.RecordRemove()
	return e
}

func copyText(sp []byte, s string) {
	if len(sp) == 0 {
		return
	}
	n := copy(sp[:len(sp)-1], s)
	clear(sp[n:])
}

// delete unlinks the element at l and releases it.
func (q *Queue) delete(l *list.Link[Element]) {
	list.Unlink(l)
	l.Entry().Release()
}

// Size counts the elements. It returns 0 for a nil or empty queue.
func (q *Queue) Size() int {
	if q == nil {
		return 0
	}
	n := 0
	for range list.Each(&q.head) {
		n++
	}
	return n
}

// Values returns the texts in queue order.
func (q *Queue) Values() []string {
	if q == nil || list.Empty(&q.head) {
		return nil
	}
	var values []string
	for l := range list.Each(&q.head) {
		values = append(values, l.Entry().value)
	}
	return values
}

// Validate checks the structural invariants of the queue: a closed cycle
// through the sentinel with consistent back-links.
func (q *Queue) Validate() error {
	if q == nil {
		return nil
	}
	return list.Verify(&q.head)
}
