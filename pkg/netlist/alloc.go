package netlist

import (
	"fmt"
)

// Allocator hands out collision-free reference descriptors for components the
// library inserts itself (FETs, sources, resistors). The first request for a
// kind scans the store from index 1 until an unused reference is found and
// caches that index; every later request for the same kind just increments.
//
// The cached index is only valid while the allocator is the sole origin of
// new same-kind references. If external code inserts, say, an R component
// after the first scan, the next allocation may collide; the store's Insert
// then fails with ErrDuplicateRef rather than silently overwriting.
type Allocator struct {
	store   Store
	indices map[Kind]int
}

// NewAllocator creates an allocator scanning the provided store.
func NewAllocator(store Store) *Allocator {
	return &Allocator{
		store:   store,
		indices: make(map[Kind]int),
	}
}

// Next returns a fresh reference for the given kind.
func (a *Allocator) Next(kind Kind) (string, error) {
	prefix := kind.Prefix()
	if prefix == "" {
		return "", fmt.Errorf("netlist: cannot allocate references for kind %v", kind)
	}

	idx, scanned := a.indices[kind]
	if !scanned {
		idx = 1
		for a.store.Has(fmt.Sprintf("%s%d", prefix, idx)) {
			idx++
		}
	} else {
		idx++
	}
	a.indices[kind] = idx
	return fmt.Sprintf("%s%d", prefix, idx), nil
}
