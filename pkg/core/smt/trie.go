/*
Package smt implements a versioned sparse Merkle trie over 160-bit addresses.

The trie is a 160-level binary Merkle tree stored as a 16-way trie with
compressed paths: a node whose parent slot is at depth topLevel but which
itself sits deeper exposes its hash folded through empty siblings (TopHash).
Every update produces a new version; changed nodes are saved as Records and
older versions stay readable from the store by their root hash.
*/
package smt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/michaelliao/eth-smt/pkg/util"
	"go.uber.org/zap"
)

// Trie is a sparse Merkle trie backed by a versioned Store. It's not safe
// for concurrent use.
type Trie struct {
	store Store
	log   *zap.Logger

	root *BranchNode
	// committed is the root hash of the last successfully saved version.
	committed util.Uint256
}

// KeyValue is a single address update.
type KeyValue struct {
	Address util.Uint160
	Value   []byte
}

// Open returns a trie over store. A nil root creates and saves an empty
// version 0 tree, otherwise the root with the given hash is loaded. A nil
// logger disables logging.
func Open(store Store, root *util.Uint256, log *zap.Logger) (*Trie, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Trie{
		store: store,
		log:   log,
	}
	if root == nil {
		t.root = newBranchNode(0, Path{}, 0)
		if err := store.Save([]Record{NewRecord(t.root)}); err != nil {
			return nil, fmt.Errorf("failed to save empty root: %w", err)
		}
		t.committed = t.root.TopHash()
		log.Debug("init empty tree", zap.Stringer("root", t.committed))
		return t, nil
	}
	r, err := store.LoadRoot(*root)
	if err != nil {
		return nil, err
	}
	t.root = r
	t.committed = r.TopHash()
	log.Debug("init tree with root", zap.Stringer("root", t.committed), zap.Uint64("version", r.Number()))
	return t, nil
}

// StateRoot returns the current root hash.
func (t *Trie) StateRoot() util.Uint256 {
	return t.root.TopHash()
}

// Version returns the current version.
func (t *Trie) Version() uint64 {
	return t.root.Number()
}

// Root returns the root node.
func (t *Trie) Root() *BranchNode {
	return t.root
}

// Get returns the value stored at address or an empty slice if there is
// none.
func (t *Trie) Get(address util.Uint160) ([]byte, error) {
	leaf, err := t.root.getLeaf(t.store, t.readBound(), AddressPath(address))
	if err != nil {
		return nil, err
	}
	if leaf == nil {
		return []byte{}, nil
	}
	return leaf.Value(), nil
}

// readBound is the load limit for reads, records of the current version
// must be visible.
func (t *Trie) readBound() uint64 {
	return t.root.Number() + 1
}

// Update sets value at address creating a new version.
func (t *Trie) Update(address util.Uint160, value []byte) error {
	return t.UpdateBatch([]KeyValue{{Address: address, Value: value}})
}

// Update2 sets two values in a single new version.
func (t *Trie) Update2(address1 util.Uint160, value1 []byte, address2 util.Uint160, value2 []byte) error {
	return t.UpdateBatch([]KeyValue{
		{Address: address1, Value: value1},
		{Address: address2, Value: value2},
	})
}

// UpdateBatch applies all updates in order as a single new version and saves
// every changed node once. Nothing is changed if any value is invalid. An
// empty batch is a no-op.
func (t *Trie) UpdateBatch(kvs []KeyValue) error {
	if len(kvs) == 0 {
		return nil
	}
	for _, kv := range kvs {
		if err := CheckValue(kv.Value); err != nil {
			return fmt.Errorf("address %s: %w", kv.Address.StringPrefixed(), err)
		}
	}
	number := t.root.Number() + 1
	c := newCollector()
	for _, kv := range kvs {
		err := t.root.update(c, t.store, number, AddressPath(kv.Address), bytes.Clone(kv.Value))
		if err != nil {
			return t.rollback(err)
		}
	}
	records := c.records()
	if err := t.store.Save(records); err != nil {
		return t.rollback(fmt.Errorf("failed to save version %d: %w", number, err))
	}
	t.committed = t.root.TopHash()
	updateCommitMetrics(number, len(records))
	t.log.Debug("version committed",
		zap.Uint64("version", number),
		zap.Int("nodes", len(records)),
		zap.Stringer("root", t.committed))
	return nil
}

// rollback restores the last committed root after a failed update, the
// in-memory nodes may be partially modified at this point.
func (t *Trie) rollback(cause error) error {
	r, err := t.store.LoadRoot(t.committed)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("failed to restore root %s: %w", t.committed.StringPrefixed(), err))
	}
	t.root = r
	return cause
}
