package smt

import (
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/util"
)

// NodeType represents node type.
type NodeType byte

// Node types definitions.
const (
	BranchT NodeType = 0x00
	LeafT   NodeType = 0x01
)

// String implements fmt.Stringer.
func (t NodeType) String() string {
	switch t {
	case BranchT:
		return "branch"
	case LeafT:
		return "leaf"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// Node represents common interface of all trie nodes. The set of
// implementations is closed: *BranchNode and *LeafNode.
type Node interface {
	// Type returns the node kind.
	Type() NodeType
	// Number returns the version of the last write to the node.
	Number() uint64
	// Path returns the node path, the empty path for the root and the full
	// address for leaves.
	Path() Path
	// TopLevel returns the depth of the parent slot this node hangs from.
	TopLevel() int
	// TopHash is the hash the parent sees for this node: NodeHash folded
	// through empty siblings along Path()[TopLevel():].
	TopHash() util.Uint256
	// NodeHash returns the hash of the node at its own depth.
	NodeHash() util.Uint256

	// setTopLevel moves the node under a new parent slot.
	setTopLevel(number uint64, topLevel int)
}

// baseNode holds the attributes shared by all node kinds.
type baseNode struct {
	number   uint64
	path     Path
	topLevel int
	topHash  util.Uint256
}

// Number implements the Node interface.
func (b *baseNode) Number() uint64 { return b.number }

// Path implements the Node interface.
func (b *baseNode) Path() Path { return b.path }

// TopLevel implements the Node interface.
func (b *baseNode) TopLevel() int { return b.topLevel }

// TopHash implements the Node interface.
func (b *baseNode) TopHash() util.Uint256 { return b.topHash }

// shortHash is used in node string representations.
func shortHash(h util.Uint256) string {
	return h.String()[:8]
}
