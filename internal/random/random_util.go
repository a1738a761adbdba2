package random

import (
	"math/rand"

	"github.com/michaelliao/eth-smt/pkg/util"
)

// Bytes returns a random byte slice of specified length.
func Bytes(n int) []byte {
	b := make([]byte, n)
	Fill(b)
	return b
}

// Fill fills buffer with random bytes.
func Fill(buf []byte) {
	// Rand reader returns no errors
	_, _ = rand.Read(buf)
}

// Uint160 returns a random Uint160.
func Uint160() util.Uint160 {
	var u util.Uint160
	Fill(u[:])
	return u
}

// Uint256 returns a random Uint256.
func Uint256() util.Uint256 {
	var u util.Uint256
	Fill(u[:])
	return u
}

// Value returns a random trie value of n 32-byte units.
func Value(n int) []byte {
	return Bytes(n * 32)
}
