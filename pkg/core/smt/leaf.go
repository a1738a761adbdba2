package smt

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/crypto/hash"
	"github.com/michaelliao/eth-smt/pkg/util"
)

// ValueUnit is the granularity of leaf values in bytes.
const ValueUnit = 32

// LeafNode represents a trie leaf holding a data value at a full address.
type LeafNode struct {
	baseNode
	value    []byte
	dataHash util.Uint256
}

var _ Node = (*LeafNode)(nil)

// CheckValue verifies that value can be stored in a leaf.
func CheckValue(value []byte) error {
	if len(value) == 0 || len(value)%ValueUnit != 0 {
		return fmt.Errorf("%w: length %d is not a positive multiple of %d", ErrInvalidValue, len(value), ValueUnit)
	}
	return nil
}

// newLeafNode returns a new leaf, value is expected to be valid and owned by
// the leaf from now on.
func newLeafNode(number uint64, address Path, topLevel int, value []byte) *LeafNode {
	n := &LeafNode{baseNode: baseNode{path: address}}
	n.set(number, topLevel, value)
	return n
}

// set updates the leaf and recalculates its hashes.
func (n *LeafNode) set(number uint64, topLevel int, value []byte) {
	n.number = number
	n.topLevel = topLevel
	n.value = value
	n.dataHash = hash.Keccak256(value)
	n.topHash = hash.FoldRange(hash.TreeHeight, n.path.nibbles[topLevel:], n.dataHash)
}

func (n *LeafNode) setTopLevel(number uint64, topLevel int) {
	n.set(number, topLevel, n.value)
}

// Type implements the Node interface.
func (n *LeafNode) Type() NodeType { return LeafT }

// NodeHash implements the Node interface, for leaves it's the hash of the
// value.
func (n *LeafNode) NodeHash() util.Uint256 { return n.dataHash }

// Address returns the leaf address.
func (n *LeafNode) Address() util.Uint160 {
	var a util.Uint160
	for i := range a {
		a[i] = n.path.nibbles[i*2]<<4 | n.path.nibbles[i*2+1]
	}
	return a
}

// Value returns a copy of the leaf value.
func (n *LeafNode) Value() []byte {
	return bytes.Clone(n.value)
}

// String implements fmt.Stringer.
func (n *LeafNode) String() string {
	data := hex.EncodeToString(n.value)
	if len(data) > 8 {
		data = data[:8] + "..."
	}
	return fmt.Sprintf("Leaf(number=%d, path=%s, %d -> %d, topHash=%s, dataHash=%s, value=%s)",
		n.number, n.path, n.topLevel, MaxPathLen, shortHash(n.topHash), shortHash(n.dataHash), data)
}
