package smt

import (
	"bytes"
	"testing"

	"github.com/michaelliao/eth-smt/internal/random"
	"github.com/stretchr/testify/require"
)

func TestCompress(t *testing.T) {
	t.Run("compressible", func(t *testing.T) {
		data := bytes.Repeat([]byte("Ab"), 1024)
		c, err := compress(data)
		require.NoError(t, err)
		require.Equal(t, encodingLZ4, c[0])
		require.Less(t, len(c), len(data))

		d, err := decompress(c)
		require.NoError(t, err)
		require.Equal(t, data, d)
	})
	t.Run("incompressible", func(t *testing.T) {
		data := random.Bytes(64)
		c, err := compress(data)
		require.NoError(t, err)
		require.Equal(t, encodingRaw, c[0])
		require.Equal(t, data, c[1:])

		d, err := decompress(c)
		require.NoError(t, err)
		require.Equal(t, data, d)
	})
}

func TestDecompressErrors(t *testing.T) {
	c, err := compress(bytes.Repeat([]byte{0}, 4096))
	require.NoError(t, err)
	require.Equal(t, encodingLZ4, c[0])

	for name, bad := range map[string][]byte{
		"empty":     {},
		"encoding":  {5, 1, 2, 3},
		"no length": {encodingLZ4},
		"too big":   {encodingLZ4, 0xff, 0, 0, 0, 0, 0, 0, 0, 1},
		"truncated": c[:len(c)-2],
		"wrong length": append([]byte{encodingLZ4, 0xfd, 0x01, 0x10},
			c[1+varUintLen(c[1]):]...),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decompress(bad)
			require.ErrorIs(t, err, errCorruptedValue)
		})
	}
}
