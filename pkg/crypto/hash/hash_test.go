package hash

import (
	"strings"
	"testing"

	"github.com/michaelliao/eth-smt/pkg/util"
	"github.com/stretchr/testify/require"
)

func mustHash(t *testing.T, s string) util.Uint256 {
	h, err := util.Uint256DecodeString(s)
	require.NoError(t, err)
	return h
}

func TestKeccak256(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"", "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{"A", "03783fac2efed8fbc9ad443e592ee30e61d65f471140c10ca155e937b435b760"},
		{"hello", "1c8aff950685c2ed4bc3174f3472287b56d9517b9c948127319a09a7a36deac8"},
		{"hello, world.", "18296c188ed03eb9be91af1838d87644870affae813bb3f39ca7b2eaecdae1e0"},
		{"hi, this is a 32 bytes test data", "360054265d535c5ac43c0b1467bfb4a4792e9fa2bf2d3bc451132b09e44d037b"},
		{"0123456789abcdef0123456789abcdef", "9a57067ee21cfc99ac55dbc3bc5e6f9461dbd7ffc60b79a12f3e93c9c987f0cf"},
		{strings.Repeat("\x00", 32), "290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"},
		{"0123456789abcdef0123456789abcdef0123456789abcdef-xyz", "899c4737ad9cc3532493e7d131fca42ec35456cc014173651e07a928cdb6d996"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, Keccak256([]byte(tc.input)).String(), "input %q", tc.input)
	}
}

func TestKeccak256Pair(t *testing.T) {
	const (
		left1     = "8cce65b2992eebfc9bcd56dc1db87a45a75cffa46617f31317a2254d14c381ce"
		right1    = "cf3a90558602bb70e2c935e447b60de2e392e3d7f535e35e77fe6cdc7d635d9a"
		left2     = "9a57067ee21cfc99ac55dbc3bc5e6f9461dbd7ffc60b79a12f3e93c9c987f0cf"
		right2    = "9a57067ee21cfc99ac55dbc3bc5e6f9461dbd7ffc60b79a12f3e93c9c987f0ce"
		hash0     = "290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"
		hashEmpty = "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	)
	testCases := []struct {
		expected    string
		left, right string
	}{
		{"f3fdc852d6d7df177476aafee1aab0bb3b0456e11dfd392a0bee07c545274dc4", left1, right1},
		{"babd05a3d64888bd6078386103d7607e2a55cda74135b5496e044e3ca090117d", right1, left1},
		{"a8357ed01197ecd80a59ef015206c34da2b9fe27215f7f3a1bc6130a6831239d", left2, right2},
		{"c6138e501daba3db3b0168ff769303450077026e6cedab4723de9869e05467c5", right2, left2},
		{"633dc4d7da7256660a892f8f1604a44b5432649cc8ec5cb3ced4c4e6ac94dd1d", hash0, hash0},
		{"9c6b2c1b0d0b25a008e6c882cc7b415f309965c72ad2b944ac0931048ca31cd5", hashEmpty, hashEmpty},
	}
	for _, tc := range testCases {
		actual := Keccak256Pair(mustHash(t, tc.left), mustHash(t, tc.right))
		require.Equal(t, tc.expected, actual.String())
	}
}

func TestDefaultHash(t *testing.T) {
	require.Equal(t, Keccak256(nil), DefaultHash(TreeHeight))
	require.Equal(t, "9c6b2c1b0d0b25a008e6c882cc7b415f309965c72ad2b944ac0931048ca31cd5", DefaultHash(TreeHeight-1).String())
	for h := 0; h < TreeHeight; h++ {
		require.Equal(t, Keccak256Pair(DefaultHash(h+1), DefaultHash(h+1)), DefaultHash(h))
	}
	require.Panics(t, func() { DefaultHash(-1) })
	require.Panics(t, func() { DefaultHash(TreeHeight + 1) })
}

func TestFoldNibble(t *testing.T) {
	leaf := mustHash(t, strings.Repeat("9", 64))
	testCases := []struct {
		index    byte
		expected string
	}{
		{0, "e67841f9a215c07d39de830f7bb56576ab25433493e04ab0ca6aa5a495bd0d6a"},
		{1, "bd8c943f0a7be84be54301661315add8c5f2b418f56c0c1504d95590f1f15d3e"},
		{2, "5f50cfe6b03797cc81f45396a400aca81ff8d9947785ab9583133ea366c15b51"},
		{9, "7469ef9ca82c77d0e77882655707ac7bd35cc76fccac50cbf9b2758f052d62f4"},
		{14, "3d6ce0f60469d2ca2c7b2f8af2089a0a212292fc57dc7e177c759db926e90512"},
		{15, "36873fe6ba9db2ce0ec296eafea5cc940796a0d2a846937269e3369136780628"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, FoldNibble(TreeHeight, tc.index, leaf).String(), "index %d", tc.index)
	}

	node := mustHash(t, "7469ef9ca82c77d0e77882655707ac7bd35cc76fccac50cbf9b2758f052d62f4")
	require.Equal(t, "4fab65756339c0969be5301cf3df1e7148b22ad78d5dcf428fed51133a20117d",
		FoldNibble(TreeHeight-4, 3, node).String())
}

func TestFoldRange(t *testing.T) {
	leaf := mustHash(t, strings.Repeat("9", 64))

	t.Run("empty", func(t *testing.T) {
		require.Equal(t, leaf, FoldRange(TreeHeight, nil, leaf))
		require.Equal(t, leaf, FoldRange(TreeHeight, []byte{}, leaf))
	})
	t.Run("single nibble", func(t *testing.T) {
		require.Equal(t, "e67841f9a215c07d39de830f7bb56576ab25433493e04ab0ca6aa5a495bd0d6a", FoldRange(TreeHeight, []byte{0}, leaf).String())
		require.Equal(t, "bd8c943f0a7be84be54301661315add8c5f2b418f56c0c1504d95590f1f15d3e", FoldRange(TreeHeight, []byte{1}, leaf).String())
		require.Equal(t, "7469ef9ca82c77d0e77882655707ac7bd35cc76fccac50cbf9b2758f052d62f4", FoldRange(TreeHeight, []byte{9}, leaf).String())
		require.Equal(t, "36873fe6ba9db2ce0ec296eafea5cc940796a0d2a846937269e3369136780628", FoldRange(TreeHeight, []byte{15}, leaf).String())
	})
	t.Run("two nibbles", func(t *testing.T) {
		require.Equal(t, "4fab65756339c0969be5301cf3df1e7148b22ad78d5dcf428fed51133a20117d", FoldRange(TreeHeight, []byte{3, 9}, leaf).String())
	})
	t.Run("full path of empty leaf", func(t *testing.T) {
		// Folding the empty leaf through any full path yields the empty root.
		nibbles := make([]byte, TreeHeight/4)
		for i := range nibbles {
			nibbles[i] = byte(i % 16)
		}
		require.Equal(t, DefaultHash(0), FoldRange(TreeHeight, nibbles, DefaultHash(TreeHeight)))
	})
}
