package telemetry

import (
	"sync/atomic"
	"time"
)

// QueueMetrics collects counters about queue operations. A single instance
// may be shared by several queues.
type QueueMetrics struct {
	inserts        atomic.Uint64
	insertFailures atomic.Uint64
	removals       atomic.Uint64
	releases       atomic.Uint64
	deletes        atomic.Uint64
	sorts          atomic.Uint64
	sortDuration   atomic.Int64
}

// Snapshot is a point-in-time copy of QueueMetrics.
type Snapshot struct {
	Inserts        uint64
	InsertFailures uint64
	Removals       uint64
	Releases       uint64
	Deletes        uint64
	Sorts          uint64
	AverageSort    time.Duration
}

var defaultQueueMetrics QueueMetrics

// DefaultQueueMetrics returns the process-wide metrics.
func DefaultQueueMetrics() *QueueMetrics {
	return &defaultQueueMetrics
}

// RecordInsert counts one insert attempt.
func (m *QueueMetrics) RecordInsert(ok bool) {
	if ok {
		m.inserts.Add(1)
	} else {
		m.insertFailures.Add(1)
	}
}

// RecordRemove counts one element unlinked and handed to a caller.
func (m *QueueMetrics) RecordRemove() {
	m.removals.Add(1)
}

// RecordRelease counts one element whose storage was given back.
func (m *QueueMetrics) RecordRelease() {
	m.releases.Add(1)
}

// RecordDelete counts n elements dropped by a structural transform.
func (m *QueueMetrics) RecordDelete(n int) {
	if n > 0 {
		m.deletes.Add(uint64(n))
	}
}

// TraceSort starts timing a sort and returns the function that finishes it.
func (m *QueueMetrics) TraceSort() func() {
	start := time.Now()
	return func() {
		m.sortDuration.Add(time.Since(start).Nanoseconds())
		m.sorts.Add(1)
	}
}

// Snapshot returns the collected values.
func (m *QueueMetrics) Snapshot() Snapshot {
	s := Snapshot{
		Inserts:        m.inserts.Load(),
		InsertFailures: m.insertFailures.Load(),
		Removals:       m.removals.Load(),
		Releases:       m.releases.Load(),
		Deletes:        m.deletes.Load(),
		Sorts:          m.sorts.Load(),
	}
	if s.Sorts > 0 {
		s.AverageSort = time.Duration(m.sortDuration.Load() / int64(s.Sorts))
	}
	return s
}

// Reset sets all counters back to zero.
func (m *QueueMetrics) Reset() {
	m.inserts.Store(0)
	m.insertFailures.Store(0)
	m.removals.Store(0)
	m.releases.Store(0)
	m.deletes.Store(0)
	m.sorts.Store(0)
	m.sortDuration.Store(0)
}
