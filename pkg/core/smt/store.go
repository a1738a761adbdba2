package smt

import (
	"github.com/michaelliao/eth-smt/pkg/util"
)

// Store is a versioned node store. Every top path has a history of records
// with strictly increasing numbers.
type Store interface {
	// Load returns the node of the latest record for topPath with a number
	// strictly less than before, or nil if there is none. A fresh node is
	// returned on every call.
	Load(topPath Path, before uint64) (Node, error)
	// LoadRoot returns the root branch with the given hash or an error
	// wrapping ErrRootNotFound.
	LoadRoot(h util.Uint256) (*BranchNode, error)
	// Save appends records to the store, either all of them or none.
	Save(records []Record) error
}

// collector accumulates nodes touched by an update keeping the first
// occurrence of every node only.
type collector struct {
	nodes []Node
	seen  map[Node]struct{}
}

func newCollector() *collector {
	return &collector{seen: make(map[Node]struct{})}
}

func (c *collector) add(n Node) {
	if _, ok := c.seen[n]; ok {
		return
	}
	c.seen[n] = struct{}{}
	c.nodes = append(c.nodes, n)
}

// records serializes collected nodes in their current state.
func (c *collector) records() []Record {
	rs := make([]Record, len(c.nodes))
	for i, n := range c.nodes {
		rs[i] = NewRecord(n)
	}
	return rs
}
