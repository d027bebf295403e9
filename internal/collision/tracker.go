package collision

import (
	"fmt"

	"github.com/arloliu/simtrace/errs"
)

// Tracker records element paths with their hashes while the catalog builds its
// path index, and remembers which hashes are shared by more than one path.
//
// A collided hash cannot be resolved through the hash index alone; the catalog
// consults Collided and falls back to an exact string lookup for those.
type Tracker struct {
	names    map[uint64]string   // Hash → first path seen with it
	collided map[uint64]struct{} // Hashes shared by two or more distinct paths
	count    int
}

// NewTracker creates a new collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names:    make(map[uint64]string),
		collided: make(map[uint64]struct{}),
	}
}

// Track records a path with its hash.
//
// Returns ErrPathCollision if the very same path was already tracked: the
// element tree must not contain two nodes with one dotted path. Two different
// paths sharing a hash are not an error; the hash is marked as collided.
func (t *Tracker) Track(path string, hash uint64) error {
	if existing, ok := t.names[hash]; ok {
		if existing == path {
			return fmt.Errorf("%w: %q", errs.ErrPathCollision, path)
		}
		t.collided[hash] = struct{}{}
	} else {
		t.names[hash] = path
	}
	t.count++

	return nil
}

// Collided reports whether more than one path hashes to hash.
func (t *Tracker) Collided(hash uint64) bool {
	_, ok := t.collided[hash]
	return ok
}

// HasCollision returns true if any collision has been detected.
func (t *Tracker) HasCollision() bool {
	return len(t.collided) > 0
}

// Count returns the number of tracked paths.
func (t *Tracker) Count() int {
	return t.count
}
