// Package tabu implements the tabu-search variant of the driver (spec
// §4.5): batch generation, sort by score, pick the first candidate whose
// transition is either not forbidden or qualifies for aspiration.
package tabu

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

// List is the move-memory structure consulted by Driver (spec §6.4). The
// default FIFO implementation below satisfies it; callers may supply
// their own capacity policy.
type List interface {
	Contains(key uint64) bool
	Append(key uint64)
	SetSize(size int)
}

// FIFO is a bounded, FIFO-eviction tabu list keyed by uint64 hashes,
// lifted in shape from the teacher's TabuList: a map for O(1) membership
// plus an order slice for O(1) amortized eviction of the oldest entry.
type FIFO struct {
	mu    sync.RWMutex
	items map[uint64]struct{}
	order []uint64
	size  int
}

// NewFIFO constructs a FIFO tabu list with the given capacity.
func NewFIFO(size int) *FIFO {
	if size < 1 {
		size = 1
	}
	return &FIFO{
		items: make(map[uint64]struct{}, size),
		order: make([]uint64, 0, size),
		size:  size,
	}
}

// Contains reports whether key is currently forbidden.
func (f *FIFO) Contains(key uint64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.items[key]
	return ok
}

// Append adds key to the list, evicting the oldest entry first if the
// list is at capacity. Memory size never exceeds the configured capacity
// (spec §3 invariant 5).
func (f *FIFO) Append(key uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.items[key]; exists {
		return
	}
	if len(f.order) >= f.size {
		oldest := f.order[0]
		f.order = f.order[1:]
		delete(f.items, oldest)
	}
	f.items[key] = struct{}{}
	f.order = append(f.order, key)
}

// SetSize changes the capacity. When the list holds more entries than the
// new size, the oldest ones are evicted until it fits.
func (f *FIFO) SetSize(size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if size < 1 {
		size = 1
	}
	f.size = size
	for len(f.order) > f.size {
		delete(f.items, f.order[0])
		f.order = f.order[1:]
	}
}

// HashBytes hashes an arbitrary byte-serializable transition descriptor
// with FNV-1a, the same algorithm the teacher's hashAssignments used over
// an assignment's employee/shift/date fields.
func HashBytes(parts ...[]byte) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum64()
}

// HashUUID hashes a uuid.UUID transition identifier, the paradigmatic case
// of a Transition type an embedding problem reaches for (random move IDs,
// deduplicated edits, ...).
func HashUUID(id uuid.UUID) uint64 {
	return HashBytes(id[:])
}
