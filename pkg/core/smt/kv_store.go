package smt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/michaelliao/eth-smt/pkg/core/storage"
	"github.com/michaelliao/eth-smt/pkg/io"
	"github.com/michaelliao/eth-smt/pkg/util"
	"go.uber.org/zap"
)

// kvStoreVersion is the DB format version saved by KVStore.
const kvStoreVersion = "smt-1"

// ErrIncompatibleDB is returned when the KV store was created by an
// incompatible version of the KVStore.
var ErrIncompatibleDB = errors.New("incompatible DB version")

// KVStoreOptions configures KVStore.
type KVStoreOptions struct {
	// CacheSize is the number of decoded records kept in memory, zero
	// disables caching.
	CacheSize int
	// Compress enables lz4 compression of new records. Compressed and
	// plain records can be read regardless of this setting.
	Compress bool
}

// KVStore is a Store persisting records into a storage.Store. Record history
// of every top path is kept under keys ordered from the newest to the oldest
// version so that Load is a single Seek.
type KVStore struct {
	store    storage.Store
	log      *zap.Logger
	compress bool
	// cache maps history keys to decoded records.
	cache *lru.Cache
}

var _ Store = (*KVStore)(nil)

// NewKVStore creates a KVStore over s. Empty DB is initialized with the
// current format version, otherwise the version is checked.
func NewKVStore(s storage.Store, opts KVStoreOptions, log *zap.Logger) (*KVStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v, err := s.Get(storage.SYSVersion.Bytes())
	switch {
	case errors.Is(err, storage.ErrKeyNotFound):
		err = s.PutChangeSet(map[string][]byte{
			string(storage.SYSVersion.Bytes()): []byte(kvStoreVersion),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save DB version: %w", err)
		}
		log.Info("initialized new DB", zap.String("version", kvStoreVersion))
	case err != nil:
		return nil, fmt.Errorf("failed to read DB version: %w", err)
	case string(v) != kvStoreVersion:
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrIncompatibleDB, kvStoreVersion, v)
	}
	kv := &KVStore{
		store:    s,
		log:      log,
		compress: opts.Compress,
	}
	if opts.CacheSize > 0 {
		kv.cache, err = lru.New(opts.CacheSize)
		if err != nil {
			return nil, err
		}
	}
	return kv, nil
}

func pathPrefix(p storage.KeyPrefix, path Path) []byte {
	key := make([]byte, 2, 2+path.Len()+8)
	key[0] = byte(p)
	key[1] = byte(path.Len())
	return append(key, path.nibbles...)
}

// invNumber returns big-endian inverted n so that newer versions come first.
func invNumber(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, ^n)
	return b
}

func historyKey(topPath Path, n uint64) []byte {
	return append(pathPrefix(storage.DataNodeHistory, topPath), invNumber(n)...)
}

func latestKey(topPath Path) []byte {
	return pathPrefix(storage.DataLatest, topPath)
}

func rootKey(h util.Uint256) []byte {
	return append(storage.DataRoot.Bytes(), h[:]...)
}

func leafGuardKey(n uint64, address Path) []byte {
	key := make([]byte, 9, 9+address.Len())
	key[0] = byte(storage.DataLeaf)
	binary.BigEndian.PutUint64(key[1:], n)
	return append(key, address.nibbles...)
}

// Load implements the Store interface.
func (s *KVStore) Load(topPath Path, before uint64) (Node, error) {
	if before == 0 {
		return nil, nil
	}
	var key, val []byte
	s.store.Seek(storage.SeekRange{
		Prefix: pathPrefix(storage.DataNodeHistory, topPath),
		Start:  invNumber(before - 1),
	}, func(k, v []byte) bool {
		key = bytes.Clone(k)
		val = bytes.Clone(v)
		return false
	})
	if key == nil {
		return nil, nil
	}
	r, err := s.record(key, val)
	if err != nil {
		return nil, err
	}
	return r.Node()
}

// LoadRoot implements the Store interface.
func (s *KVStore) LoadRoot(h util.Uint256) (*BranchNode, error) {
	key, err := s.store.Get(rootKey(h))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, h.StringPrefixed())
		}
		return nil, err
	}
	val, err := s.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: missing record for root %s: %v", ErrIntegrity, h.StringPrefixed(), err)
	}
	r, err := s.record(key, val)
	if err != nil {
		return nil, err
	}
	n, err := r.Node()
	if err != nil {
		return nil, err
	}
	b, ok := n.(*BranchNode)
	if !ok || b.NodeHash() != h {
		return nil, fmt.Errorf("%w: bad record for root %s", ErrIntegrity, h.StringPrefixed())
	}
	return b, nil
}

// LatestRoot returns the hash of the root saved last or nil if there is no
// root in the store yet.
func (s *KVStore) LatestRoot() (*util.Uint256, error) {
	v, err := s.store.Get(storage.SYSCurrentRoot.Bytes())
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	h, err := util.Uint256DecodeBytes(v)
	if err != nil {
		return nil, fmt.Errorf("%w: current root: %v", ErrIntegrity, err)
	}
	return &h, nil
}

// Save implements the Store interface. All records are written with a single
// change set.
func (s *KVStore) Save(records []Record) error {
	var (
		puts    = make(map[string][]byte, 2*len(records)+1)
		latest  = make(map[string]uint64, len(records))
		encoded = make(map[string]Record, len(records))
	)
	for _, r := range records {
		lk := string(latestKey(r.TopPath))
		last, ok := latest[lk]
		if !ok {
			v, err := s.store.Get([]byte(lk))
			switch {
			case err == nil && len(v) == 8:
				last, ok = binary.BigEndian.Uint64(v), true
			case err == nil:
				return fmt.Errorf("%w: bad latest version for %q", ErrIntegrity, r.TopPath.String())
			case !errors.Is(err, storage.ErrKeyNotFound):
				return err
			}
		}
		if ok && last >= r.Number {
			return fmt.Errorf("%w: %s at %q, latest is %d", ErrVersionConflict, r, r.TopPath.String(), last)
		}
		latest[lk] = r.Number

		if r.IsLeaf {
			key := leafGuardKey(r.Number, r.Path)
			_, err := s.store.Get(key)
			if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
				return err
			}
			if _, dup := puts[string(key)]; dup || err == nil {
				return fmt.Errorf("%w: %q at %d", ErrDuplicateLeaf, r.Path.String(), r.Number)
			}
			puts[string(key)] = []byte{1}
		}

		data, err := s.encode(&r)
		if err != nil {
			return err
		}
		hk := historyKey(r.TopPath, r.Number)
		puts[string(hk)] = data
		encoded[string(hk)] = r
		if r.Path.IsEmpty() {
			puts[string(rootKey(r.NodeHash))] = hk
			puts[string(storage.SYSCurrentRoot.Bytes())] = bytes.Clone(r.NodeHash[:])
		}
	}
	for lk, n := range latest {
		v := make([]byte, 8)
		binary.BigEndian.PutUint64(v, n)
		puts[lk] = v
	}
	if err := s.store.PutChangeSet(puts); err != nil {
		return err
	}
	if s.cache != nil {
		for k, r := range encoded {
			s.cache.Add(k, r)
		}
	}
	s.log.Debug("records saved", zap.Int("records", len(records)), zap.Int("keys", len(puts)))
	return nil
}

func (s *KVStore) encode(r *Record) ([]byte, error) {
	data, err := io.ToByteArray(r)
	if err != nil {
		return nil, err
	}
	if s.compress {
		return compress(data)
	}
	return append([]byte{encodingRaw}, data...), nil
}

// record decodes the value stored under the history key using the cache.
func (s *KVStore) record(key, val []byte) (Record, error) {
	if s.cache != nil {
		if r, ok := s.cache.Get(string(key)); ok {
			return r.(Record), nil
		}
	}
	data, err := decompress(val)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	var r Record
	if err := io.FromByteArray(&r, data); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if s.cache != nil {
		s.cache.Add(string(key), r)
	}
	return r, nil
}

// Close closes the underlying storage.
func (s *KVStore) Close() error {
	return s.store.Close()
}
