package smt

import (
	"strings"
	"testing"

	"github.com/michaelliao/eth-smt/pkg/crypto/hash"
	"github.com/michaelliao/eth-smt/pkg/io"
	"github.com/michaelliao/eth-smt/pkg/util"
	"github.com/stretchr/testify/require"
)

func requireRecordsEqual(t *testing.T, expected, actual Record) {
	require.Equal(t, expected.Number, actual.Number)
	require.Equal(t, expected.IsLeaf, actual.IsLeaf)
	require.True(t, expected.TopPath.Equal(actual.TopPath), "top path %s != %s", expected.TopPath, actual.TopPath)
	require.True(t, expected.Path.Equal(actual.Path), "path %s != %s", expected.Path, actual.Path)
	require.Equal(t, expected.TopLevel, actual.TopLevel)
	require.Equal(t, expected.TopHash, actual.TopHash)
	require.Equal(t, expected.NodeHash, actual.NodeHash)
	require.Equal(t, expected.Value, actual.Value)
}

func testLeaf(t *testing.T, number uint64, address string, topLevel int, value []byte) *LeafNode {
	a, err := util.ParseAddress(address)
	require.NoError(t, err)
	return newLeafNode(number, AddressPath(a), topLevel, value)
}

func TestRecordLeaf(t *testing.T) {
	value := []byte(strings.Repeat("Ab", 16))
	l := testLeaf(t, 7, "0x0125e02fa10caf6128207bc920ca41b85194bb79", 3, value)
	r := NewRecord(l)
	require.True(t, r.IsLeaf)
	require.Equal(t, uint64(7), r.Number)
	require.Equal(t, "012", r.TopPath.String())
	require.Equal(t, hash.Keccak256(value), r.NodeHash)

	data, err := io.ToByteArray(&r)
	require.NoError(t, err)
	var actual Record
	require.NoError(t, io.FromByteArray(&actual, data))
	requireRecordsEqual(t, r, actual)

	n, err := actual.Node()
	require.NoError(t, err)
	restored, ok := n.(*LeafNode)
	require.True(t, ok)
	require.Equal(t, l.TopHash(), restored.TopHash())
	require.Equal(t, value, restored.Value())
	require.Equal(t, l.Address(), restored.Address())
	require.Equal(t, 3, restored.TopLevel())
}

func TestRecordBranch(t *testing.T) {
	p, err := PathFromHex("1357")
	require.NoError(t, err)
	b := newBranchNode(3, p, 2)
	r := NewRecord(b)
	require.False(t, r.IsLeaf)
	require.Nil(t, r.Value)
	require.Equal(t, hash.DefaultHash(16), r.NodeHash)
	require.Equal(t, hash.DefaultHash(8), r.TopHash)

	data, err := io.ToByteArray(&r)
	require.NoError(t, err)
	var actual Record
	require.NoError(t, io.FromByteArray(&actual, data))
	requireRecordsEqual(t, r, actual)

	n, err := actual.Node()
	require.NoError(t, err)
	require.Equal(t, BranchT, n.Type())
	require.Equal(t, r.NodeHash, n.NodeHash())
	require.Equal(t, r.TopHash, n.TopHash())
	require.True(t, p.Equal(n.Path()))
}

func TestRecordRoot(t *testing.T) {
	r := NewRecord(newBranchNode(0, Path{}, 0))
	require.True(t, r.TopPath.IsEmpty())
	require.Equal(t, hash.DefaultHash(0), r.TopHash)

	data, err := io.ToByteArray(&r)
	require.NoError(t, err)
	var actual Record
	require.NoError(t, io.FromByteArray(&actual, data))
	requireRecordsEqual(t, r, actual)
}

func TestRecordNodeErrors(t *testing.T) {
	value := []byte(strings.Repeat("Cd", 16))
	valid := NewRecord(testLeaf(t, 1, "0x0faf6128207b79e028519012f20ca41bd4b3910c", 1, value))

	t.Run("integrity", func(t *testing.T) {
		r := valid
		r.Value = []byte(strings.Repeat("Xx", 16))
		_, err := r.Node()
		require.ErrorIs(t, err, ErrIntegrity)
	})
	t.Run("bad value", func(t *testing.T) {
		r := valid
		r.Value = value[:31]
		_, err := r.Node()
		require.ErrorIs(t, err, ErrInvalidRecord)
	})
	t.Run("top path mismatch", func(t *testing.T) {
		r := valid
		r.TopPath, _ = PathFromHex("1")
		_, err := r.Node()
		require.ErrorIs(t, err, ErrInvalidRecord)
	})
	t.Run("top level", func(t *testing.T) {
		r := valid
		r.TopLevel = MaxPathLen + 1
		_, err := r.Node()
		require.ErrorIs(t, err, ErrInvalidRecord)
	})
	t.Run("branch at full path", func(t *testing.T) {
		r := valid
		r.IsLeaf = false
		_, err := r.Node()
		require.ErrorIs(t, err, ErrInvalidRecord)
	})
	t.Run("leaf at partial path", func(t *testing.T) {
		p, _ := PathFromHex("0f")
		r := NewRecord(newBranchNode(1, p, 1))
		r.IsLeaf = true
		_, err := r.Node()
		require.ErrorIs(t, err, ErrInvalidRecord)
	})
}

func TestRecordDecodeErrors(t *testing.T) {
	r := NewRecord(testLeaf(t, 1, "0x0faf6128207b79e028519012f20ca41bd4b3910c", 1, make([]byte, 32)))
	data, err := io.ToByteArray(&r)
	require.NoError(t, err)

	t.Run("format", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[0] = recordFormat + 1
		require.Error(t, io.FromByteArray(new(Record), bad))
	})
	t.Run("truncated", func(t *testing.T) {
		for i := 0; i < len(data); i++ {
			require.Error(t, io.FromByteArray(new(Record), data[:i]))
		}
	})
	t.Run("trailing", func(t *testing.T) {
		require.Error(t, io.FromByteArray(new(Record), append(data, 0)))
	})
	t.Run("bad nibble", func(t *testing.T) {
		bad := append([]byte{}, data...)
		// format, leaf flag, number, top level and path length.
		bad[1+1+8+1+1] = 0x10
		require.ErrorIs(t, io.FromByteArray(new(Record), bad), ErrOutOfRange)
	})
	t.Run("top level", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[1+1+8] = MaxPathLen + 1
		require.ErrorIs(t, io.FromByteArray(new(Record), bad), ErrInvalidRecord)
	})
}
