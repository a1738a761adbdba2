/*
Package flatsmt provides a flat sparse Merkle tree keeping leaf hashes only.
The root is recomputed from scratch level by level, so it's slow, but trivially
correct and used as a reference for the persistent trie.
*/
package flatsmt

import (
	"bytes"

	"github.com/holiman/uint256"
	"github.com/michaelliao/eth-smt/pkg/crypto/hash"
	"github.com/michaelliao/eth-smt/pkg/util"
)

// Tree is a flat sparse Merkle tree.
type Tree struct {
	values map[util.Uint160][]byte
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{values: make(map[util.Uint160][]byte)}
}

// Update sets value at address.
func (t *Tree) Update(address util.Uint160, value []byte) {
	t.values[address] = bytes.Clone(value)
}

// Get returns the value at address or an empty slice.
func (t *Tree) Get(address util.Uint160) []byte {
	if v, ok := t.values[address]; ok {
		return v
	}
	return []byte{}
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.values)
}

// Root calculates the root hash.
func (t *Tree) Root() util.Uint256 {
	if len(t.values) == 0 {
		return hash.DefaultHash(0)
	}
	level := make(map[uint256.Int]util.Uint256, len(t.values))
	for a, v := range t.values {
		var idx uint256.Int
		idx.SetBytes(a[:])
		level[idx] = hash.Keccak256(v)
	}
	for h := hash.TreeHeight; h > 0; h-- {
		upper := make(map[uint256.Int]util.Uint256, len(level)/2+1)
		for idx := range level {
			var parent, left, right uint256.Int
			parent.Rsh(&idx, 1)
			if _, ok := upper[parent]; ok {
				continue
			}
			left.Lsh(&parent, 1)
			right.AddUint64(&left, 1)
			l, ok := level[left]
			if !ok {
				l = hash.DefaultHash(h)
			}
			r, ok := level[right]
			if !ok {
				r = hash.DefaultHash(h)
			}
			upper[parent] = hash.Keccak256Pair(l, r)
		}
		level = upper
	}
	return level[uint256.Int{}]
}
