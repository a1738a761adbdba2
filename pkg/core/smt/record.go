package smt

import (
	"encoding/hex"
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/io"
	"github.com/michaelliao/eth-smt/pkg/util"
)

// recordFormat is the current binary record encoding version.
const recordFormat = 0

// Record is a flat store-friendly representation of a Node. It's the only
// type exchanged with the Store and is never modified after creation.
type Record struct {
	Number   uint64
	IsLeaf   bool
	TopPath  Path
	Path     Path
	TopLevel int
	TopHash  util.Uint256
	NodeHash util.Uint256
	// Value is only set for leaves.
	Value []byte
}

var _ io.Serializable = (*Record)(nil)

// NewRecord serializes n.
func NewRecord(n Node) Record {
	r := Record{
		Number:   n.Number(),
		TopPath:  n.Path().slice(0, n.TopLevel()),
		Path:     n.Path(),
		TopLevel: n.TopLevel(),
		TopHash:  n.TopHash(),
		NodeHash: n.NodeHash(),
	}
	if l, ok := n.(*LeafNode); ok {
		r.IsLeaf = true
		r.Value = l.value
	}
	return r
}

// Node restores a node from r. Leaves are rebuilt from the value and their
// top hash must match the recorded one.
func (r Record) Node() (Node, error) {
	if r.TopLevel < 0 || r.TopLevel > r.Path.Len() {
		return nil, fmt.Errorf("%w: top level %d for path %q", ErrInvalidRecord, r.TopLevel, r.Path.String())
	}
	if !r.TopPath.Equal(r.Path.slice(0, r.TopLevel)) {
		return nil, fmt.Errorf("%w: top path %q doesn't match path %q", ErrInvalidRecord, r.TopPath.String(), r.Path.String())
	}
	if r.Path.Len() == MaxPathLen {
		if !r.IsLeaf {
			return nil, fmt.Errorf("%w: branch at full path %q", ErrInvalidRecord, r.Path.String())
		}
		if err := CheckValue(r.Value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		n := newLeafNode(r.Number, r.Path, r.TopLevel, r.Value)
		if n.topHash != r.TopHash {
			return nil, fmt.Errorf("%w: top hash mismatch for leaf %q", ErrIntegrity, r.Path.String())
		}
		return n, nil
	}
	if r.IsLeaf {
		return nil, fmt.Errorf("%w: leaf at partial path %q", ErrInvalidRecord, r.Path.String())
	}
	return newStoredBranchNode(r.Number, r.Path, r.TopLevel, r.TopHash, r.NodeHash), nil
}

// EncodeBinary implements io.Serializable.
func (r *Record) EncodeBinary(w *io.BinWriter) {
	w.WriteB(recordFormat)
	w.WriteBool(r.IsLeaf)
	w.WriteU64LE(r.Number)
	w.WriteB(byte(r.TopLevel))
	w.WriteVarBytes(r.Path.nibbles)
	w.WriteBytes(r.TopHash[:])
	w.WriteBytes(r.NodeHash[:])
	if r.IsLeaf {
		w.WriteVarBytes(r.Value)
	}
}

// DecodeBinary implements io.Serializable.
func (r *Record) DecodeBinary(br *io.BinReader) {
	if f := br.ReadB(); br.Err == nil && f != recordFormat {
		br.Err = fmt.Errorf("unknown record format %d", f)
		return
	}
	r.IsLeaf = br.ReadBool()
	r.Number = br.ReadU64LE()
	r.TopLevel = int(br.ReadB())
	ns := br.ReadVarBytes(MaxPathLen)
	br.ReadBytes(r.TopHash[:])
	br.ReadBytes(r.NodeHash[:])
	if r.IsLeaf {
		r.Value = br.ReadVarBytes()
	} else {
		r.Value = nil
	}
	if br.Err != nil {
		return
	}
	p, err := PathFromNibbles(ns)
	if err != nil {
		br.Err = err
		return
	}
	if r.TopLevel > p.Len() {
		br.Err = fmt.Errorf("%w: top level %d for path %q", ErrInvalidRecord, r.TopLevel, p.String())
		return
	}
	r.Path = p
	r.TopPath = p.slice(0, r.TopLevel)
}

// String implements fmt.Stringer.
func (r Record) String() string {
	data := "nil"
	if r.Value != nil {
		data = hex.EncodeToString(r.Value)
		if len(data) > 8 {
			data = data[:8] + "..."
		}
	}
	return fmt.Sprintf("Record(number=%d, topPath=%s, path=%s, %d -> %d, topHash=%s, nodeHash=%s, value=%s)",
		r.Number, r.TopPath, r.Path, r.TopLevel, r.Path.Len(), shortHash(r.TopHash), shortHash(r.NodeHash), data)
}
