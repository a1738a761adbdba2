package random

import (
	"github.com/michaelliao/eth-smt/pkg/util"
)

const (
	javaMultiplier = 0x5DEECE66D
	javaAddend     = 0xB
	javaMask       = 1<<48 - 1
)

// Java is a deterministic generator producing the same sequence as
// java.util.Random for the same seed. It allows checking roots computed
// elsewhere for known address sets.
type Java struct {
	seed uint64
}

// NewJava creates a generator with the given seed.
func NewJava(seed int64) *Java {
	return &Java{seed: (uint64(seed) ^ javaMultiplier) & javaMask}
}

func (r *Java) next(bits uint) int32 {
	r.seed = (r.seed*javaMultiplier + javaAddend) & javaMask
	return int32(int64(r.seed) >> (48 - bits))
}

// Int32 returns the next pseudorandom 32-bit value.
func (r *Java) Int32() int32 {
	return r.next(32)
}

// Fill fills buf with pseudorandom bytes, four bytes per generated int
// starting from the lowest one.
func (r *Java) Fill(buf []byte) {
	for i := 0; i < len(buf); {
		v := r.Int32()
		for n := min(len(buf)-i, 4); n > 0; n-- {
			buf[i] = byte(v)
			v >>= 8
			i++
		}
	}
}

// Uint160 returns a pseudorandom address.
func (r *Java) Uint160() util.Uint160 {
	var u util.Uint160
	r.Fill(u[:])
	return u
}
