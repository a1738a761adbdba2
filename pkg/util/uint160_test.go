package util_test

import (
	"encoding/hex"
	"testing"

	"github.com/michaelliao/eth-smt/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUInt160DecodeString(t *testing.T) {
	hexStr := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	val, err := util.Uint160DecodeString(hexStr)
	assert.NoError(t, err)
	assert.Equal(t, hexStr, val.String())

	_, err = util.Uint160DecodeString(hexStr[1:])
	assert.Error(t, err)

	hexStr = "zz3b96ae1bcc5a585e075e3b81920210dec16302"
	_, err = util.Uint160DecodeString(hexStr)
	assert.Error(t, err)
}

func TestUint160DecodeBytes(t *testing.T) {
	hexStr := "2d3b96ae1bcc5a585e075e3b81920210dec16302"
	b, err := hex.DecodeString(hexStr)
	require.NoError(t, err)

	val, err := util.Uint160DecodeBytes(b)
	assert.NoError(t, err)
	assert.Equal(t, hexStr, val.String())
	assert.Equal(t, b, val.BytesBE())

	_, err = util.Uint160DecodeBytes(b[1:])
	assert.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		a, err := util.ParseAddress("0x0125e02fa10caf6128207bc920ca41b85194bb79")
		require.NoError(t, err)
		require.Equal(t, byte(0x01), a[0])
		require.Equal(t, byte(0x79), a[19])
		require.Equal(t, "0x0125e02fa10caf6128207bc920ca41b85194bb79", a.StringPrefixed())
	})
	for name, s := range map[string]string{
		"no prefix":  "0125e02fa10caf6128207bc920ca41b85194bb79",
		"upper case": "0x0125E02FA10CAF6128207BC920CA41B85194BB79",
		"short":      "0x0125e02fa10caf6128207bc920ca41b85194bb7",
		"long":       "0x0125e02fa10caf6128207bc920ca41b85194bb790",
		"not hex":    "0x0125e02fa10caf6128207bc920ca41b85194bbzz",
		"empty":      "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := util.ParseAddress(s)
			require.ErrorIs(t, err, util.ErrInvalidAddress)
		})
	}
}
