package hash

import (
	"github.com/michaelliao/eth-smt/pkg/util"
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes the incoming byte slice using the legacy (pre-NIST)
// Keccak-256 algorithm as used by Ethereum.
func Keccak256(data []byte) util.Uint256 {
	var h util.Uint256
	hasher := sha3.NewLegacyKeccak256()
	_, _ = hasher.Write(data)
	hasher.Sum(h[:0])
	return h
}

// Keccak256Pair hashes the concatenation of two hashes. The order of
// arguments matters.
func Keccak256Pair(left, right util.Uint256) util.Uint256 {
	var h util.Uint256
	hasher := sha3.NewLegacyKeccak256()
	_, _ = hasher.Write(left[:])
	_, _ = hasher.Write(right[:])
	hasher.Sum(h[:0])
	return h
}
