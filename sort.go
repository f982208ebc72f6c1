package linkedqueue

import (
	"strings"

	"go.uber.org/zap"

	"github.com/timzifer/linkedqueue/internal/list"
)

// Sort orders the elements ascending by text. Elements with equal text keep
// their relative order. No element is allocated or released.
//
// Sort panics if the list fails its structural check afterwards.
func (q *Queue) Sort() {
	if q == nil || list.Empty(&q.head) || list.Singular(&q.head) {
		return
	}

	finish := q.opts.metrics.TraceSort()
	list.Sort(&q.head, compareElements)
	finish()

	if err := list.Verify(&q.head); err != nil {
		q.opts.logger.Error("list corrupted by sort", zap.Error(err))
		panic(err)
	}
}

func compareElements(a, b *Element) int {
	return strings.Compare(a.value, b.value)
}
