package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/timzifer/linkedqueue"
	"github.com/timzifer/linkedqueue/internal/alloc"
	"github.com/timzifer/linkedqueue/internal/telemetry"
)

var (
	ErrAllocFailed  = errors.New("queue allocation failed")
	ErrInsertFailed = errors.New("insertion failed")
	ErrNoElement    = errors.New("no element to remove")
	ErrNoQueue      = errors.New("queue is NULL")
	ErrMismatch     = errors.New("unexpected result")
	ErrNotSorted    = errors.New("queue is not sorted in ascending order")
	ErrDuplicates   = errors.New("queue still holds duplicate values")
	ErrCorrupted    = errors.New("queue structure is corrupted")
)

// DefaultStringBufferSize is the buffer handed to remove commands.
const DefaultStringBufferSize = 1024

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracker makes the session account allocations with t.
func WithTracker(t *alloc.Tracker) Option {
	return func(s *Session) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithStringBufferSize sets the buffer size used by rh and rt.
func WithStringBufferSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

func WithMetrics(m *telemetry.QueueMetrics) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Session holds the queue a script works on. The queue starts out nil; the
// script creates it with "new".
type Session struct {
	q       *linkedqueue.Queue
	tracker *alloc.Tracker
	metrics *telemetry.QueueMetrics
	logger  *zap.Logger
	out     io.Writer
	bufSize int
}

func NewSession(out io.Writer, options ...Option) *Session {
	s := &Session{
		tracker: alloc.NewTracker(),
		metrics: telemetry.DefaultQueueMetrics(),
		logger:  zap.NewNop(),
		out:     out,
		bufSize: DefaultStringBufferSize,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Tracker returns the allocator accounting for the session's queue.
func (s *Session) Tracker() *alloc.Tracker {
	return s.tracker
}

// Queue returns the current queue, which may be nil.
func (s *Session) Queue() *linkedqueue.Queue {
	return s.q
}

// Exec runs one command and checks its outcome.
func (s *Session) Exec(cmd *Command) error {
	s.logger.Debug("exec", zap.String("cmd", cmd.Name))

	switch cmd.Kind {
	case CmdNew:
		s.q.Free()
		s.q = linkedqueue.New(
			linkedqueue.WithAllocator(s.tracker),
			linkedqueue.WithLogger(s.logger),
			linkedqueue.WithMetrics(s.metrics),
		)
		if s.q == nil {
			return s.allocFailure(ErrAllocFailed)
		}
	case CmdFree:
		s.q.Free()
		s.q = nil
	case CmdInsertHead, CmdInsertTail:
		insert := s.q.InsertTail
		if cmd.Kind == CmdInsertHead {
			insert = s.q.InsertHead
		}
		for i := 0; i < cmd.Count; i++ {
			if !insert(cmd.Value) {
				if s.q == nil {
					return fmt.Errorf("%s: %w", cmd.Name, ErrNoQueue)
				}
				return s.allocFailure(fmt.Errorf("%s '%s': %w", cmd.Name, cmd.Value, ErrInsertFailed))
			}
		}
	case CmdRemoveHead, CmdRemoveTail:
		if err := s.remove(cmd); err != nil {
			return err
		}
	case CmdSize:
		n := s.q.Size()
		fmt.Fprintf(s.out, "Queue size = %d\n", n)
		if cmd.HasCount && n != cmd.Count {
			return fmt.Errorf("%w: size %d, expected %d", ErrMismatch, n, cmd.Count)
		}
		return nil
	case CmdDeleteMid:
		if !s.q.DeleteMid() {
			return fmt.Errorf("%s: %w", cmd.Name, ErrNoElement)
		}
	case CmdDeleteDup:
		if !s.q.DeleteDup() {
			return fmt.Errorf("%s: %w", cmd.Name, ErrNoQueue)
		}
		if err := checkDistinct(s.q.Values()); err != nil {
			return err
		}
	case CmdSwap:
		s.q.Swap()
	case CmdReverse:
		s.q.Reverse()
	case CmdSort:
		s.q.Sort()
		if err := checkSorted(s.q.Values()); err != nil {
			return err
		}
	case CmdShow:
	case CmdFail:
		s.tracker.SetFailPercent(cmd.Count)
		fmt.Fprintf(s.out, "Allocation failure rate = %d%%\n", s.tracker.FailPercent())
		return nil
	default:
		return fmt.Errorf("%w '%s'", ErrUnknownCommand, cmd.Name)
	}

	if err := s.q.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	s.show()
	return nil
}

func (s *Session) remove(cmd *Command) error {
	buf := make([]byte, s.bufSize)
	var e *linkedqueue.Element
	if cmd.Kind == CmdRemoveHead {
		e = s.q.RemoveHead(buf)
	} else {
		e = s.q.RemoveTail(buf)
	}
	if e == nil {
		return fmt.Errorf("%s: %w", cmd.Name, ErrNoElement)
	}
	defer e.Release()

	got := cString(buf)
	fmt.Fprintf(s.out, "Removed %s from queue\n", got)
	if cmd.HasValue && got != cmd.Value {
		return fmt.Errorf("%w: removed '%s', expected '%s'", ErrMismatch, got, cmd.Value)
	}
	return nil
}

// allocFailure tolerates err while failures are being injected.
func (s *Session) allocFailure(err error) error {
	if s.tracker.FailPercent() > 0 {
		fmt.Fprintf(s.out, "WARNING: %v\n", err)
		s.show()
		return nil
	}
	return err
}

func (s *Session) show() {
	if s.q == nil {
		fmt.Fprintln(s.out, "q = NULL")
		return
	}
	fmt.Fprintf(s.out, "q = [%s]\n", strings.Join(s.q.Values(), " "))
}

// Close frees the queue and reports blocks that were never given back.
func (s *Session) Close() error {
	s.q.Free()
	s.q = nil
	return s.tracker.Leaks()
}

func cString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}

func checkSorted(values []string) error {
	for i := 1; i < len(values); i++ {
		if values[i-1] > values[i] {
			return fmt.Errorf("%w: '%s' before '%s'", ErrNotSorted, values[i-1], values[i])
		}
	}
	return nil
}

func checkDistinct(values []string) error {
	for i := 1; i < len(values); i++ {
		if values[i-1] == values[i] {
			return fmt.Errorf("%w: '%s'", ErrDuplicates, values[i])
		}
	}
	return nil
}
