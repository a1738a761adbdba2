package smt

import (
	"errors"
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/io"
	"github.com/pierrec/lz4"
)

// Record value encodings used by KVStore.
const (
	encodingRaw byte = 0
	encodingLZ4 byte = 1
)

// maxRecordSize limits the decompressed size of a single record.
const maxRecordSize = io.MaxArraySize

var errCorruptedValue = errors.New("corrupted record value")

// compress encodes data with lz4 if it makes it smaller, otherwise data is
// stored as is. The result always starts with the encoding byte.
func compress(data []byte) ([]byte, error) {
	dest := make([]byte, lz4.CompressBlockBound(len(data)))
	size, err := lz4.CompressBlock(data, dest, nil)
	if err != nil {
		return nil, err
	}
	hdr := make([]byte, 10)
	hdr[0] = encodingLZ4
	n := 1 + io.PutVarUint(hdr[1:], uint64(len(data)))
	// lz4 returns zero size for incompressible input.
	if size == 0 || size+n > len(data) {
		return append([]byte{encodingRaw}, data...), nil
	}
	return append(hdr[:n], dest[:size]...), nil
}

// varUintLen returns the length of a varuint starting with b.
func varUintLen(b byte) int {
	switch b {
	case 0xfd:
		return 3
	case 0xfe:
		return 5
	case 0xff:
		return 9
	default:
		return 1
	}
}

// decompress reverses compress.
func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errCorruptedValue
	}
	switch data[0] {
	case encodingRaw:
		return data[1:], nil
	case encodingLZ4:
		r := io.NewBinReaderFromBuf(data[1:])
		n := r.ReadVarUint()
		if r.Err != nil {
			return nil, fmt.Errorf("%w: %v", errCorruptedValue, r.Err)
		}
		if n > maxRecordSize {
			return nil, fmt.Errorf("%w: size %d is too big", errCorruptedValue, n)
		}
		src := data[1+varUintLen(data[1]):]
		dest := make([]byte, n)
		size, err := lz4.UncompressBlock(src, dest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errCorruptedValue, err)
		}
		if uint64(size) != n {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", errCorruptedValue, n, size)
		}
		return dest, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", errCorruptedValue, data[0])
	}
}
