// Package alloc accounts for the memory blocks a queue takes and gives back.
//
// Go does not report allocation failure, so the queue asks an Allocator for
// permission before creating anything it owns and reports every block it
// releases. Heap always agrees. Tracker keeps count of live blocks, detects
// leaks and double frees, and can refuse allocations on purpose to drive the
// failure paths.
package alloc

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Kind identifies what a block is used for.
type Kind int

const (
	KindHead Kind = iota
	KindElement
	KindText

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindHead:
		return "head"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Allocator grants and takes back blocks.
type Allocator interface {
	// Alloc reports whether a block of the given kind and size may be taken.
	Alloc(kind Kind, size int) bool
	// Free returns a block previously granted by Alloc.
	Free(kind Kind, size int)
}

// Heap grants every allocation and keeps no books.
type Heap struct{}

func (Heap) Alloc(Kind, int) bool { return true }
func (Heap) Free(Kind, int)       {}

// ErrLeak is returned by Tracker.Leaks when blocks are still live.
var ErrLeak = errors.New("alloc: blocks still allocated")

type trackerOptions struct {
	failPercent int
	seed        uint64
}

type TrackerOption func(*trackerOptions)

// WithFailPercent makes the tracker refuse roughly percent out of every
// hundred allocations.
func WithFailPercent(percent int) TrackerOption {
	return func(opts *trackerOptions) {
		opts.failPercent = percent
	}
}

// WithSeed fixes the source deciding which allocations are refused.
func WithSeed(seed uint64) TrackerOption {
	return func(opts *trackerOptions) {
		opts.seed = seed
	}
}

// Tracker is an Allocator that counts live blocks. It is not safe for
// concurrent use.
type Tracker struct {
	live        [kindCount]int
	liveBytes   [kindCount]int
	refused     int
	refuseKind  [kindCount]bool
	failPercent int
	rnd         *rand.Rand
}

func NewTracker(options ...TrackerOption) *Tracker {
	opts := trackerOptions{seed: 1}
	for _, opt := range options {
		opt(&opts)
	}

	t := &Tracker{
		rnd: rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15)),
	}
	t.SetFailPercent(opts.failPercent)
	return t
}

// SetFailPercent changes the random refusal rate. Values are clamped to [0, 100].
func (t *Tracker) SetFailPercent(percent int) {
	t.failPercent = min(max(percent, 0), 100)
}

// FailPercent returns the current random refusal rate.
func (t *Tracker) FailPercent() int {
	return t.failPercent
}

// Refuse makes every allocation of kind fail until Allow is called.
func (t *Tracker) Refuse(kind Kind) {
	t.refuseKind[kind] = true
}

// Allow undoes Refuse.
func (t *Tracker) Allow(kind Kind) {
	t.refuseKind[kind] = false
}

func (t *Tracker) Alloc(kind Kind, size int) bool {
	if t.refuseKind[kind] || (t.failPercent > 0 && t.rnd.IntN(100) < t.failPercent) {
		t.refused++
		return false
	}

	t.live[kind]++
	t.liveBytes[kind] += size
	return true
}

// Free panics when more blocks of kind are returned than were granted.
func (t *Tracker) Free(kind Kind, size int) {
	if t.live[kind] == 0 {
		panic(fmt.Sprintf("alloc: free of %s block with none allocated", kind))
	}
	t.live[kind]--
	t.liveBytes[kind] -= size
}

// Live returns the number of blocks currently allocated.
func (t *Tracker) Live() int {
	n := 0
	for _, v := range t.live {
		n += v
	}
	return n
}

// LiveOf returns the number of blocks of kind currently allocated.
func (t *Tracker) LiveOf(kind Kind) int {
	return t.live[kind]
}

// LiveBytes returns the total size of all blocks currently allocated.
func (t *Tracker) LiveBytes() int {
	n := 0
	for _, v := range t.liveBytes {
		n += v
	}
	return n
}

// Refused returns how many allocations were refused so far.
func (t *Tracker) Refused() int {
	return t.refused
}

// Leaks returns an error wrapping ErrLeak if any block is still allocated.
func (t *Tracker) Leaks() error {
	if t.Live() == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d head, %d element, %d text (%d bytes)", ErrLeak,
		t.live[KindHead], t.live[KindElement], t.live[KindText], t.LiveBytes())
}
