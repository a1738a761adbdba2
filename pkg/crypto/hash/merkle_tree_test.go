package hash

import (
	"fmt"
	"testing"

	"github.com/michaelliao/eth-smt/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqHashes returns n hashes 0x..01, 0x..02 and so on.
func seqHashes(n int) []util.Uint256 {
	hashes := make([]util.Uint256, n)
	for i := range hashes {
		hashes[i][util.Uint256Size-1] = byte(i + 1)
	}
	return hashes
}

func testComputeMerkleTree(t *testing.T, hashes []util.Uint256, result string) {
	merkle, err := NewMerkleTree(hashes)
	require.NoError(t, err)
	scratch := make([]util.Uint256, len(hashes))
	copy(scratch, hashes)
	optimized := CalcMerkleRoot(scratch)
	assert.Equal(t, result, optimized.String())
	assert.Equal(t, result, merkle.Root().String())
	assert.Equal(t, true, merkle.root.IsRoot())
	leaf := merkle.root
	for leaf.leftChild != nil || leaf.rightChild != nil {
		if leaf.leftChild != nil {
			leaf = leaf.leftChild
			continue
		}
		leaf = leaf.rightChild
	}
	assert.Equal(t, true, leaf.IsLeaf())
	assert.Equal(t, hashes[0], leaf.Hash())
}

func TestComputeMerkleTree(t *testing.T) {
	testCases := []struct {
		hashes []util.Uint256
		result string
	}{
		{seqHashes(2), "e90b7bceb6e7df5418fb78d8ee546e97c83a08bbccc01a0644d599ccd2a7c2e0"},
		{[]util.Uint256{seqHashes(2)[1], seqHashes(2)[0]}, "d9d16d34ffb15ba3a3d852f0d403e2ce1d691fb54de27ac87cd2f993f3ec330f"},
		{seqHashes(8), "6f4feb766c4e9e71bf038b8df02f0966e2bf98fe1eaacfd96e5d036664ca1b3c"},
		{seqHashes(9), "e8cfcbe9ef675ec92ff1a3e0e6a059007a2b4ad4fc105611229042f37b5f98b1"},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d leaves", len(tc.hashes)), func(t *testing.T) {
			testComputeMerkleTree(t, tc.hashes, tc.result)
		})
	}
}

func TestMerkleTreeSingleLeaf(t *testing.T) {
	single := util.Uint256{0x45, 0x8b}
	merkle, err := NewMerkleTree([]util.Uint256{single})
	require.NoError(t, err)
	require.Equal(t, single, merkle.Root())
	require.Equal(t, 1, merkle.Depth())
	require.Equal(t, single, CalcMerkleRoot([]util.Uint256{single}))
}

func TestMerkleTreeDepth(t *testing.T) {
	merkle, err := NewMerkleTree(seqHashes(9))
	require.NoError(t, err)
	require.Equal(t, 5, merkle.Depth())
}

func TestReduceLevel(t *testing.T) {
	testCases := []struct {
		n        int
		expected []string
	}{
		{3, []string{
			"e90b7bceb6e7df5418fb78d8ee546e97c83a08bbccc01a0644d599ccd2a7c2e0",
			"cbc4e5fb02c3d1de23a9f1e014b4d2ee5aeaea9505df5e855c9210bf472495af",
		}},
		{4, []string{
			"e90b7bceb6e7df5418fb78d8ee546e97c83a08bbccc01a0644d599ccd2a7c2e0",
			"2e174c10e159ea99b867ce3205125c24a42d128804e4070ed6fcc8cc98166aa0",
		}},
		{5, []string{
			"e90b7bceb6e7df5418fb78d8ee546e97c83a08bbccc01a0644d599ccd2a7c2e0",
			"2e174c10e159ea99b867ce3205125c24a42d128804e4070ed6fcc8cc98166aa0",
			"458b30c2d72bfd2c6317304a4594ecbafe5f729d3111b65fdc3a33bd48e5432d",
		}},
		{8, []string{
			"e90b7bceb6e7df5418fb78d8ee546e97c83a08bbccc01a0644d599ccd2a7c2e0",
			"2e174c10e159ea99b867ce3205125c24a42d128804e4070ed6fcc8cc98166aa0",
			"bfd358e93f18da3ed276c3afdbdba00b8f0b6008a03476a6a86bd6320ee6938b",
			"24cd397636bedc6cf9b490d0edd57c769c19b367fb7d5c2344ae1ddc7d21c144",
		}},
	}
	for _, tc := range testCases {
		res := reduceLevel(seqHashes(tc.n))
		actual := make([]string, len(res))
		for i := range res {
			actual[i] = res[i].String()
		}
		require.Equal(t, tc.expected, actual)
	}
}

func TestCalcMerkleRootEmpty(t *testing.T) {
	require.Equal(t, util.Uint256{}, CalcMerkleRoot(nil))
}

func TestNewMerkleTreeFailWithoutHashes(t *testing.T) {
	var hashes []util.Uint256
	_, err := NewMerkleTree(hashes)
	require.Error(t, err)
	hashes = make([]util.Uint256, 0)
	_, err = NewMerkleTree(hashes)
	require.Error(t, err)
}

func TestBuildMerkleTreeWithoutNodes(t *testing.T) {
	var leaves []*MerkleTreeNode
	require.Panics(t, func() { buildMerkleTree(leaves) })
	leaves = make([]*MerkleTreeNode, 0)
	require.Panics(t, func() { buildMerkleTree(leaves) })
}
