package smt

import (
	"fmt"
	"sort"
	"sync"

	"github.com/michaelliao/eth-smt/pkg/util"
)

// MemoryStore is an in-memory Store. Copies are cheap and fully independent
// which makes it suitable for snapshots.
type MemoryStore struct {
	mut sync.RWMutex
	// history keeps records per top path ordered by number, newest last.
	history map[string][]Record
	roots   map[util.Uint256]Record
	// leaves keeps addresses written per version. Inner sets are never
	// modified after being stored, Save replaces them instead, so copies
	// share them.
	leaves map[uint64]leafSet
}

type leafSet map[string]struct{}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		history: make(map[string][]Record),
		roots:   make(map[util.Uint256]Record),
		leaves:  make(map[uint64]leafSet),
	}
}

// Copy returns an independent snapshot of the store. Records and per-version
// leaf sets are shared since they're never modified, so the cost depends on
// the number of top paths and versions only.
func (s *MemoryStore) Copy() *MemoryStore {
	s.mut.Lock()
	defer s.mut.Unlock()
	c := &MemoryStore{
		history: make(map[string][]Record, len(s.history)),
		roots:   make(map[util.Uint256]Record, len(s.roots)),
		leaves:  make(map[uint64]leafSet, len(s.leaves)),
	}
	for k, v := range s.history {
		// Capacity limit makes the next append in either store reallocate.
		v = v[:len(v):len(v)]
		s.history[k] = v
		c.history[k] = v
	}
	for k, v := range s.roots {
		c.roots[k] = v
	}
	for n, set := range s.leaves {
		c.leaves[n] = set
	}
	return c
}

// Load implements the Store interface.
func (s *MemoryStore) Load(topPath Path, before uint64) (Node, error) {
	s.mut.RLock()
	rs := s.history[topPath.key()]
	s.mut.RUnlock()
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].Number < before {
			return rs[i].Node()
		}
	}
	return nil, nil
}

// LoadRoot implements the Store interface.
func (s *MemoryStore) LoadRoot(h util.Uint256) (*BranchNode, error) {
	s.mut.RLock()
	r, ok := s.roots[h]
	s.mut.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, h.StringPrefixed())
	}
	n, err := r.Node()
	if err != nil {
		return nil, err
	}
	b, ok := n.(*BranchNode)
	if !ok {
		return nil, fmt.Errorf("%w: root %s is not a branch", ErrInvalidRecord, h.StringPrefixed())
	}
	return b, nil
}

// Save implements the Store interface. The whole batch is checked before
// anything is written.
func (s *MemoryStore) Save(records []Record) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	latest := make(map[string]uint64, len(records))
	newLeaves := make(map[uint64]leafSet)
	for _, r := range records {
		k := r.TopPath.key()
		last, ok := latest[k]
		if !ok {
			if rs := s.history[k]; len(rs) > 0 {
				last, ok = rs[len(rs)-1].Number, true
			}
		}
		if ok && last >= r.Number {
			return fmt.Errorf("%w: %s at %q, latest is %d", ErrVersionConflict, r, r.TopPath.String(), last)
		}
		latest[k] = r.Number
		if r.IsLeaf {
			a := r.Path.key()
			_, stored := s.leaves[r.Number][a]
			_, batched := newLeaves[r.Number][a]
			if stored || batched {
				return fmt.Errorf("%w: %q at %d", ErrDuplicateLeaf, r.Path.String(), r.Number)
			}
			if newLeaves[r.Number] == nil {
				newLeaves[r.Number] = make(leafSet)
			}
			newLeaves[r.Number][a] = struct{}{}
		}
	}
	for _, r := range records {
		k := r.TopPath.key()
		s.history[k] = append(s.history[k], r)
		if r.Path.IsEmpty() {
			s.roots[r.NodeHash] = r
		}
	}
	for n, added := range newLeaves {
		old := s.leaves[n]
		set := make(leafSet, len(old)+len(added))
		for a := range old {
			set[a] = struct{}{}
		}
		for a := range added {
			set[a] = struct{}{}
		}
		s.leaves[n] = set
	}
	return nil
}

// Len returns the number of distinct top paths in the store.
func (s *MemoryStore) Len() int {
	s.mut.RLock()
	defer s.mut.RUnlock()
	return len(s.history)
}

// Records iterates over all stored records ordered by top path and then by
// number until f returns false.
func (s *MemoryStore) Records(f func(Record) bool) {
	s.mut.RLock()
	keys := make([]string, 0, len(s.history))
	for k := range s.history {
		keys = append(keys, k)
	}
	hist := make([][]Record, len(keys))
	sort.Strings(keys)
	for i, k := range keys {
		hist[i] = s.history[k]
	}
	s.mut.RUnlock()

	for _, rs := range hist {
		for _, r := range rs {
			if !f(r) {
				return
			}
		}
	}
}
