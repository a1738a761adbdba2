package io

import "errors"

var errTrailingData = errors.New("unexpected trailing data")

// Serializable defines the binary encoding/decoding interface. Errors are
// returned via BinReader/BinWriter Err field. These functions must have safe
// behavior when the passed BinReader/BinWriter with Err is already set.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}

// ToByteArray serializes the given item into a byte slice.
func ToByteArray(item Serializable) ([]byte, error) {
	w := NewBufBinWriter()
	item.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromByteArray decodes data into the given item and fails on trailing bytes.
func FromByteArray(item Serializable, data []byte) error {
	r := NewBinReaderFromBuf(data)
	item.DecodeBinary(r)
	if r.Err != nil {
		return r.Err
	}
	var extra [1]byte
	r.ReadBytes(extra[:])
	if r.Err == nil {
		return errTrailingData
	}
	return nil
}
