package util_test

import (
	"testing"

	"github.com/michaelliao/eth-smt/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256DecodeString(t *testing.T) {
	hexStr := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	val, err := util.Uint256DecodeString(hexStr)
	require.NoError(t, err)
	assert.Equal(t, hexStr, val.String())
	assert.Equal(t, byte(0xf0), val[0])

	val2, err := util.Uint256DecodeString("0x" + hexStr)
	require.NoError(t, err)
	require.Equal(t, val, val2)

	_, err = util.Uint256DecodeString(hexStr[1:])
	assert.Error(t, err)

	hexStr = "zzz7308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	_, err = util.Uint256DecodeString(hexStr)
	assert.Error(t, err)
}

func TestUint256DecodeBytes(t *testing.T) {
	hexStr := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	val, err := util.Uint256DecodeString(hexStr)
	require.NoError(t, err)

	val2, err := util.Uint256DecodeBytes(val.BytesBE())
	require.NoError(t, err)
	require.Equal(t, val, val2)

	_, err = util.Uint256DecodeBytes(val.BytesBE()[1:])
	assert.Error(t, err)
}

func TestUint256StringPrefixed(t *testing.T) {
	hexStr := "f037308fa0ab18155bccfc08485468c112409ea5064595699e98c545f245f32d"
	val, err := util.Uint256DecodeString(hexStr)
	require.NoError(t, err)
	require.Equal(t, "0x"+hexStr, val.StringPrefixed())
}
