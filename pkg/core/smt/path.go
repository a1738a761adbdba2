package smt

import (
	"bytes"
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/util"
)

// MaxPathLen is the length of a full address path in nibbles.
const MaxPathLen = util.Uint160Size * 2

const hexDigits = "0123456789abcdef"

// Path is an immutable sequence of nibbles (values 0..15). Slicing a Path
// never copies, both paths share the same backing buffer which is never
// written to after construction.
type Path struct {
	nibbles []byte
}

// NewPath converts bytes into a path taking the high nibble of every byte
// first. At most util.Uint160Size bytes are accepted.
func NewPath(b []byte) (Path, error) {
	if len(b) > util.Uint160Size {
		return Path{}, fmt.Errorf("%w: %d bytes", ErrOutOfRange, len(b))
	}
	return Path{nibbles: toNibbles(b)}, nil
}

// PathFromNibbles makes a path from the given nibble values, the slice is
// copied.
func PathFromNibbles(ns []byte) (Path, error) {
	if len(ns) > MaxPathLen {
		return Path{}, fmt.Errorf("%w: %d nibbles", ErrOutOfRange, len(ns))
	}
	for _, n := range ns {
		if n > 0x0f {
			return Path{}, fmt.Errorf("%w: nibble %d", ErrOutOfRange, n)
		}
	}
	return Path{nibbles: bytes.Clone(ns)}, nil
}

// PathFromHex parses a string of lower-case hex digits, one per nibble.
func PathFromHex(s string) (Path, error) {
	if len(s) > MaxPathLen {
		return Path{}, fmt.Errorf("%w: %d nibbles", ErrOutOfRange, len(s))
	}
	ns := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		n := bytes.IndexByte([]byte(hexDigits), s[i])
		if n < 0 {
			return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		ns[i] = byte(n)
	}
	return Path{nibbles: ns}, nil
}

// AddressPath returns the full path of the given address.
func AddressPath(a util.Uint160) Path {
	return Path{nibbles: toNibbles(a[:])}
}

// toNibbles mangles path by splitting every byte into 2 containing low- and high- 4-byte part.
func toNibbles(path []byte) []byte {
	result := make([]byte, len(path)*2)
	for i := range path {
		result[i*2] = path[i] >> 4
		result[i*2+1] = path[i] & 0x0F
	}
	return result
}

// Len returns the number of nibbles in p.
func (p Path) Len() int {
	return len(p.nibbles)
}

// IsEmpty returns true for the root path.
func (p Path) IsEmpty() bool {
	return len(p.nibbles) == 0
}

// At returns the nibble at position i.
func (p Path) At(i int) (byte, error) {
	if i < 0 || i >= len(p.nibbles) {
		return 0, fmt.Errorf("%w: index %d of %d", ErrOutOfRange, i, len(p.nibbles))
	}
	return p.nibbles[i], nil
}

func (p Path) at(i int) byte {
	return p.nibbles[i]
}

// Slice returns the [begin, end) subpath of p sharing its storage.
func (p Path) Slice(begin, end int) (Path, error) {
	if begin < 0 || end > len(p.nibbles) || begin > end {
		return Path{}, fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, begin, end, len(p.nibbles))
	}
	return p.slice(begin, end), nil
}

// SliceFrom returns the subpath of p starting at begin.
func (p Path) SliceFrom(begin int) (Path, error) {
	return p.Slice(begin, len(p.nibbles))
}

// slice doesn't check bounds, the capacity is limited so that appends to
// the result never touch the shared buffer.
func (p Path) slice(begin, end int) Path {
	return Path{nibbles: p.nibbles[begin:end:end]}
}

// Join returns a new path with nibble n appended to p.
func (p Path) Join(n byte) (Path, error) {
	if n > 0x0f {
		return Path{}, fmt.Errorf("%w: nibble %d", ErrOutOfRange, n)
	}
	if len(p.nibbles) >= MaxPathLen {
		return Path{}, fmt.Errorf("%w: path is full", ErrOutOfRange)
	}
	return p.join(n), nil
}

func (p Path) join(n byte) Path {
	ns := make([]byte, len(p.nibbles)+1)
	copy(ns, p.nibbles)
	ns[len(p.nibbles)] = n
	return Path{nibbles: ns}
}

// HasPrefix checks whether p starts with prefix.
func (p Path) HasPrefix(prefix Path) bool {
	return bytes.HasPrefix(p.nibbles, prefix.nibbles)
}

// HasPrefixAt checks whether prefix occurs in p at the given offset.
func (p Path) HasPrefixAt(prefix Path, offset int) bool {
	if offset < 0 || offset > len(p.nibbles) {
		return false
	}
	return bytes.HasPrefix(p.nibbles[offset:], prefix.nibbles)
}

// Equal compares two paths by value.
func (p Path) Equal(other Path) bool {
	return bytes.Equal(p.nibbles, other.nibbles)
}

// Nibbles returns a copy of nibble values of p.
func (p Path) Nibbles() []byte {
	return bytes.Clone(p.nibbles)
}

// String returns p as a string of hex digits.
func (p Path) String() string {
	b := make([]byte, len(p.nibbles))
	for i, n := range p.nibbles {
		b[i] = hexDigits[n]
	}
	return string(b)
}

// key is a compact map key for p.
func (p Path) key() string {
	return string(p.nibbles)
}

// lcp returns the longest common prefix of a and b.
// Note: it does no allocations.
func lcp(a, b []byte) []byte {
	if len(a) < len(b) {
		return lcp(b, a)
	}

	var i int
	for i = 0; i < len(b); i++ {
		if a[i] != b[i] {
			break
		}
	}

	return a[:i]
}

// SharedPrefix returns the longest common prefix of a and b as a view into a.
func SharedPrefix(a, b Path) Path {
	n := len(lcp(a.nibbles, b.nibbles))
	return a.slice(0, n)
}
