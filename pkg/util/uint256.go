package util

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32 byte long unsigned integer holding a Keccak-256 digest.
// Bytes are kept in digest order.
type Uint256 [Uint256Size]uint8

// Uint256DecodeString attempts to decode the given hex string (with or
// without 0x prefix) into a Uint256.
func Uint256DecodeString(s string) (u Uint256, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint256Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint256Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytes(b)
}

// Uint256DecodeBytes attempts to decode the given bytes into a Uint256.
func Uint256DecodeBytes(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns a byte slice representation of u.
func (u Uint256) BytesBE() []byte {
	return u[:]
}

// String implements the stringer interface.
func (u Uint256) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringPrefixed returns the 0x-prefixed hex form of u.
func (u Uint256) StringPrefixed() string {
	return "0x" + u.String()
}
