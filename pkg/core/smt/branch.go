package smt

import (
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/crypto/hash"
	"github.com/michaelliao/eth-smt/pkg/util"
)

const childrenCount = 16

// BranchNode represents a 16-way node of the trie. Children are resolved
// from the store lazily, every slot is queried at most once.
type BranchNode struct {
	baseNode
	nodeHash util.Uint256
	children [childrenCount]Node
	// queried marks slots that are already resolved, with or without a
	// child found.
	queried [childrenCount]bool
}

var _ Node = (*BranchNode)(nil)

// newBranchNode returns a branch with no children. Such a branch never
// existed in the store before, so all slots are considered resolved.
func newBranchNode(number uint64, path Path, topLevel int) *BranchNode {
	b := &BranchNode{
		baseNode: baseNode{
			number:   number,
			path:     path,
			topLevel: topLevel,
			topHash:  hash.DefaultHash(topLevel * 4),
		},
		nodeHash: hash.DefaultHash(path.Len() * 4),
	}
	for i := range b.queried {
		b.queried[i] = true
	}
	return b
}

// newStoredBranchNode restores a branch from stored attributes, children
// are left unresolved.
func newStoredBranchNode(number uint64, path Path, topLevel int, topHash, nodeHash util.Uint256) *BranchNode {
	return &BranchNode{
		baseNode: baseNode{
			number:   number,
			path:     path,
			topLevel: topLevel,
			topHash:  topHash,
		},
		nodeHash: nodeHash,
	}
}

// Type implements the Node interface.
func (b *BranchNode) Type() NodeType { return BranchT }

// NodeHash implements the Node interface.
func (b *BranchNode) NodeHash() util.Uint256 { return b.nodeHash }

// depth returns the number of nibbles consumed above this branch.
func (b *BranchNode) depth() int { return b.path.Len() }

func (b *BranchNode) setTopLevel(number uint64, topLevel int) {
	b.number = number
	b.topLevel = topLevel
	b.refoldTop()
}

func (b *BranchNode) refoldTop() {
	b.topHash = hash.FoldRange(b.depth()*4, b.path.nibbles[b.topLevel:], b.nodeHash)
}

// String implements fmt.Stringer.
func (b *BranchNode) String() string {
	return fmt.Sprintf("Branch(number=%d, path=%s, %d ~ %d, nodeHash=%s, topHash=%s)",
		b.number, b.path, b.topLevel, b.depth(), shortHash(b.nodeHash), shortHash(b.topHash))
}

// loadChild returns the child at slot i, asking the store for the latest
// record older than before on the first access.
func (b *BranchNode) loadChild(s Store, before uint64, i byte) (Node, error) {
	if b.children[i] == nil && !b.queried[i] {
		storeLoads.Inc()
		n, err := s.Load(b.path.join(i), before)
		if err != nil {
			return nil, fmt.Errorf("failed to load child %x of %q: %w", i, b.path.String(), err)
		}
		if n != nil {
			b.children[i] = n
		}
		b.queried[i] = true
	}
	return b.children[i], nil
}

// update puts value at address into the subtree rooted at b. Every node
// touched is added to c, children before their parents.
func (b *BranchNode) update(c *collector, s Store, number uint64, address Path, value []byte) error {
	b.number = number
	d := b.depth()
	i := address.at(d)
	child, err := b.loadChild(s, number, i)
	if err != nil {
		return err
	}
	switch n := child.(type) {
	case nil:
		leaf := newLeafNode(number, address, d+1, value)
		b.children[i] = leaf
		c.add(leaf)
	case *BranchNode:
		if address.HasPrefix(n.path) {
			err = n.update(c, s, number, address, value)
		} else {
			err = b.split(c, s, number, address, value, n)
		}
	case *LeafNode:
		if address.Equal(n.path) {
			n.set(number, n.topLevel, value)
			c.add(n)
		} else {
			err = b.split(c, s, number, address, value, n)
		}
	default:
		panic("invalid trie node type")
	}
	if err != nil {
		return err
	}
	if err = b.updateHash(s, number); err != nil {
		return err
	}
	c.add(b)
	return nil
}

// split inserts a new branch at the longest common prefix of address and
// the path of existing child, moving the child under it.
func (b *BranchNode) split(c *collector, s Store, number uint64, address Path, value []byte, existing Node) error {
	shared := SharedPrefix(address, existing.Path())
	level := shared.Len()
	existing.setTopLevel(number, level+1)
	c.add(existing)

	sb := newBranchNode(number, shared, b.depth()+1)
	sb.children[existing.Path().at(level)] = existing
	if err := sb.update(c, s, number, address, value); err != nil {
		return err
	}
	b.children[address.at(b.depth())] = sb
	return nil
}

// updateHash recalculates the node hash from children top hashes folding
// 16 slots through 4 binary levels. Pairs of absent subtrees stay absent,
// an absent side of a present pair is the default hash of its height.
func (b *BranchNode) updateHash(s Store, before uint64) error {
	var (
		hashes  [childrenCount]util.Uint256
		present [childrenCount]bool
	)
	for i := 0; i < childrenCount; i++ {
		child, err := b.loadChild(s, before, byte(i))
		if err != nil {
			return err
		}
		if child != nil {
			hashes[i] = child.TopHash()
			present[i] = true
		}
	}
	height := b.depth()*4 + 4
	for n := childrenCount; n > 1; n /= 2 {
		for i := 0; i < n/2; i++ {
			l, r := 2*i, 2*i+1
			if !present[l] && !present[r] {
				present[i] = false
				continue
			}
			left, right := hashes[l], hashes[r]
			if !present[l] {
				left = hash.DefaultHash(height)
			}
			if !present[r] {
				right = hash.DefaultHash(height)
			}
			hashes[i] = hash.Keccak256Pair(left, right)
			present[i] = true
		}
		height--
	}
	if present[0] {
		b.nodeHash = hashes[0]
	} else {
		b.nodeHash = hash.DefaultHash(b.depth() * 4)
	}
	b.refoldTop()
	return nil
}

// getLeaf finds the leaf with the given address in the subtree of b.
func (b *BranchNode) getLeaf(s Store, before uint64, address Path) (*LeafNode, error) {
	child, err := b.loadChild(s, before, address.at(b.depth()))
	if err != nil {
		return nil, err
	}
	switch n := child.(type) {
	case *BranchNode:
		if address.HasPrefix(n.path) {
			return n.getLeaf(s, before, address)
		}
	case *LeafNode:
		if address.Equal(n.path) {
			return n, nil
		}
	}
	return nil, nil
}
