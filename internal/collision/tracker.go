package collision

import (
	"fmt"

	"github.com/arloliu/tdms/errs"
)

// Tracker records object paths by hash while an index is being built and detects both
// repeated paths and distinct paths that share a hash.
type Tracker struct {
	paths        map[uint64]string
	order        []string
	hasCollision bool
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		paths: make(map[uint64]string),
		order: make([]string, 0),
	}
}

// Track records path under hash.
//
// A path tracked twice returns ErrDuplicateObject. Two different paths with the same hash
// are not an error: the collision flag is set and callers fall back to comparing paths.
func (t *Tracker) Track(path string, hash uint64) error {
	if existing, ok := t.paths[hash]; ok {
		if existing == path {
			return fmt.Errorf("%w: %q", errs.ErrDuplicateObject, path)
		}

		t.hasCollision = true
		for _, p := range t.order {
			if p == path {
				return fmt.Errorf("%w: %q", errs.ErrDuplicateObject, path)
			}
		}
	} else {
		t.paths[hash] = path
	}

	t.order = append(t.order, path)

	return nil
}

// HasCollision reports whether two tracked paths shared a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Paths returns the tracked paths in the order Track was called.
func (t *Tracker) Paths() []string {
	return t.order
}

// Count returns the number of tracked paths.
func (t *Tracker) Count() int {
	return len(t.order)
}

// Reset clears all tracked paths and collision state.
func (t *Tracker) Reset() {
	clear(t.paths)
	t.order = t.order[:0]
	t.hasCollision = false
}
