package hash

import (
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/util"
)

// TreeHeight is the binary height of the sparse tree, one level per address
// bit. Leaves live at TreeHeight, the root at 0.
const TreeHeight = 160

// defaultHashes[h] is the root hash of an empty subtree whose top is at
// binary height h.
var defaultHashes [TreeHeight + 1]util.Uint256

func init() {
	defaultHashes[TreeHeight] = Keccak256(nil)
	for h := TreeHeight - 1; h >= 0; h-- {
		defaultHashes[h] = Keccak256Pair(defaultHashes[h+1], defaultHashes[h+1])
	}
}

// DefaultHash returns the hash of an empty subtree at the given binary
// height. It panics for heights outside of [0, TreeHeight].
func DefaultHash(height int) util.Uint256 {
	if height < 0 || height > TreeHeight {
		panic(fmt.Sprintf("invalid tree height %d", height))
	}
	return defaultHashes[height]
}

// FoldNibble computes the root of a 16-wide subtree where only the slot at
// index is occupied by h and every other slot is empty. height is the binary
// height of the slot, the result sits 4 levels above it.
func FoldNibble(height int, index byte, h util.Uint256) util.Uint256 {
	for k := 0; k < 4; k++ {
		sibling := DefaultHash(height - k)
		if index&1 == 0 {
			h = Keccak256Pair(h, sibling)
		} else {
			h = Keccak256Pair(sibling, h)
		}
		index >>= 1
	}
	return h
}

// FoldRange lifts h from binary height `height` through the path given by
// nibbles, treating all off-path siblings as empty. Nibbles are consumed from
// the last one to the first, so nibbles[0] is the one closest to the result.
// An empty range returns h unchanged.
func FoldRange(height int, nibbles []byte, h util.Uint256) util.Uint256 {
	for i := len(nibbles) - 1; i >= 0; i-- {
		h = FoldNibble(height, nibbles[i], h)
		height -= 4
	}
	return h
}
