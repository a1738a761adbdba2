package hash

import (
	"errors"

	"github.com/michaelliao/eth-smt/pkg/util"
)

// MerkleTree implementation.
type MerkleTree struct {
	root  *MerkleTreeNode
	depth int
}

// NewMerkleTree returns a new MerkleTree object built over the given leaf
// hashes. An odd node at any level is paired with itself.
func NewMerkleTree(hashes []util.Uint256) (*MerkleTree, error) {
	if len(hashes) == 0 {
		return nil, errors.New("length of the hashes cannot be zero")
	}

	nodes := make([]*MerkleTreeNode, len(hashes))
	for i := range hashes {
		nodes[i] = &MerkleTreeNode{
			hash: hashes[i],
		}
	}

	root, depth := buildMerkleTree(nodes)
	return &MerkleTree{
		root:  root,
		depth: depth,
	}, nil
}

// Root returns the computed root hash of the MerkleTree.
func (t *MerkleTree) Root() util.Uint256 {
	return t.root.hash
}

// Depth returns the number of levels in the tree, a single leaf tree has
// depth 1.
func (t *MerkleTree) Depth() int {
	return t.depth
}

func buildMerkleTree(leaves []*MerkleTreeNode) (*MerkleTreeNode, int) {
	if len(leaves) == 0 {
		panic("length of leaves cannot be zero")
	}
	depth := 1
	for len(leaves) > 1 {
		parents := make([]*MerkleTreeNode, (len(leaves)+1)/2)
		for i := range parents {
			parents[i] = &MerkleTreeNode{}
			parents[i].leftChild = leaves[i*2]
			leaves[i*2].parent = parents[i]

			if i*2+1 == len(leaves) {
				parents[i].rightChild = parents[i].leftChild
			} else {
				parents[i].rightChild = leaves[i*2+1]
				leaves[i*2+1].parent = parents[i]
			}

			parents[i].hash = Keccak256Pair(parents[i].leftChild.hash, parents[i].rightChild.hash)
		}
		leaves = parents
		depth++
	}
	return leaves[0], depth
}

// CalcMerkleRoot calculates the Merkle root hash value for the given slice of hashes.
// It doesn't create a full MerkleTree structure and it uses the given slice as a
// scratchpad, so it will destroy its contents in the process. But it's much more
// memory efficient if you only need a root hash value. An empty slice gives a
// zero hash.
func CalcMerkleRoot(hashes []util.Uint256) util.Uint256 {
	if len(hashes) == 0 {
		return util.Uint256{}
	}
	for len(hashes) > 1 {
		hashes = reduceLevel(hashes)
	}
	return hashes[0]
}

// reduceLevel replaces every pair with its parent in place and returns the
// shortened slice.
func reduceLevel(hashes []util.Uint256) []util.Uint256 {
	if len(hashes) == 1 {
		return hashes
	}
	n := (len(hashes) + 1) / 2
	for i := 0; i < n; i++ {
		left := hashes[i*2]
		right := left
		if i*2+1 < len(hashes) {
			right = hashes[i*2+1]
		}
		hashes[i] = Keccak256Pair(left, right)
	}
	return hashes[:n]
}

// MerkleTreeNode represents a node in the MerkleTree.
type MerkleTreeNode struct {
	hash       util.Uint256
	parent     *MerkleTreeNode
	leftChild  *MerkleTreeNode
	rightChild *MerkleTreeNode
}

// Hash returns the node's hash.
func (n *MerkleTreeNode) Hash() util.Uint256 {
	return n.hash
}

// IsLeaf returns whether this node is a leaf node or not.
func (n *MerkleTreeNode) IsLeaf() bool {
	return n.leftChild == nil && n.rightChild == nil
}

// IsRoot returns whether this node is a root node or not.
func (n *MerkleTreeNode) IsRoot() bool {
	return n.parent == nil
}
