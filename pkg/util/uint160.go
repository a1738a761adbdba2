package util

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Uint160Size is the size of Uint160 in bytes.
const Uint160Size = 20

// ErrInvalidAddress is returned when an address string doesn't match the
// 0x-prefixed lower-case 40-digit hex form.
var ErrInvalidAddress = errors.New("invalid address")

// Uint160 is a 20 byte long unsigned integer used as a trie address. Bytes
// are kept in their natural (big-endian) order.
type Uint160 [Uint160Size]uint8

// Uint160DecodeString attempts to decode the given hex string (without 0x
// prefix) into a Uint160.
func Uint160DecodeString(s string) (Uint160, error) {
	var u Uint160
	if len(s) != Uint160Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint160Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint160DecodeBytes(b)
}

// Uint160DecodeBytes attempts to decode the given bytes into a Uint160.
func Uint160DecodeBytes(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected byte size of %d got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return
}

// ParseAddress parses an address of the form 0x followed by 40 lower-case hex
// digits. Anything else is rejected with ErrInvalidAddress.
func ParseAddress(s string) (Uint160, error) {
	if len(s) != 2+Uint160Size*2 || !strings.HasPrefix(s, "0x") {
		return Uint160{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	for _, c := range s[2:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return Uint160{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
	}
	return Uint160DecodeString(s[2:])
}

// BytesBE returns a big-endian byte representation of u.
func (u Uint160) BytesBE() []byte {
	return u[:]
}

// String implements the stringer interface.
func (u Uint160) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringPrefixed returns the 0x-prefixed address form accepted by ParseAddress.
func (u Uint160) StringPrefixed() string {
	return "0x" + u.String()
}
