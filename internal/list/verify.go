package list

import (
	"errors"

	"golang.org/x/xerrors"
)

var (
	// ErrBrokenCycle is reported when walking next from the anchor does not lead back to it.
	ErrBrokenCycle = errors.New("list: cycle is not closed")
	// ErrBrokenLink is reported when a back-link does not match its forward link.
	ErrBrokenLink = errors.New("list: inconsistent back-link")
)

// Verify checks that anchor heads a closed cycle in which every link's
// successor points back at it.
func Verify[E any](anchor *Link[E]) error {
	seen := make(map[*Link[E]]struct{})
	pos := 0
	for cur := anchor; ; pos++ {
		next := cur.next
		if next == nil {
			return xerrors.Errorf("nil successor at position %d: %w", pos, ErrBrokenCycle)
		}
		if next.prev != cur {
			return xerrors.Errorf("position %d: %w", pos, ErrBrokenLink)
		}
		if next == anchor {
			return nil
		}
		if _, ok := seen[next]; ok {
			return xerrors.Errorf("position %d revisits a member: %w", pos+1, ErrBrokenCycle)
		}
		if next.entry == nil {
			return xerrors.Errorf("anchorless link at position %d: %w", pos+1, ErrBrokenCycle)
		}
		seen[next] = struct{}{}
		cur = next
	}
}
