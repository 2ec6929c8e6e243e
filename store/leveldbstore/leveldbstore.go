// Package leveldbstore implements store.Database over an embedded LevelDB,
// the default durable-store backend (db_type = KV in spec.md §6). Family
// namespacing is done the way the teacher's core/rawdb key builders
// namespace tables: a one-byte family tag prefixed onto every key.
package leveldbstore

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/conflux-chain/bdm/store"
)

// Store wraps an open LevelDB handle.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) a LevelDB database at path.
func Open(path string, cacheMB int) (*Store, error) {
	opts := &opt.Options{
		BlockCacheCapacity: cacheMB * opt.MiB,
	}
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func namespacedKey(family store.Family, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(family)
	copy(out[1:], key)
	return out
}

// Get implements store.Reader.
func (s *Store) Get(family store.Family, key []byte) ([]byte, error) {
	value, err := s.db.Get(namespacedKey(family, key), nil)
	if err == leveldb.ErrNotFound {
		return nil, store.ErrNotFound
	}
	return value, err
}

// Has implements store.Reader.
func (s *Store) Has(family store.Family, key []byte) (bool, error) {
	return s.db.Has(namespacedKey(family, key), nil)
}

// Iterate implements store.Reader.
func (s *Store) Iterate(family store.Family, prefix []byte, fn func(key, value []byte) bool) error {
	fullPrefix := namespacedKey(family, prefix)
	iter := s.db.NewIterator(util.BytesPrefix(fullPrefix), nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()[1:] // strip the family tag
		if !fn(append([]byte(nil), key...), append([]byte(nil), iter.Value()...)) {
			break
		}
	}
	return iter.Error()
}

// Put implements store.Writer.
func (s *Store) Put(family store.Family, key, value []byte) error {
	return s.db.Put(namespacedKey(family, key), value, nil)
}

// Delete implements store.Writer.
func (s *Store) Delete(family store.Family, key []byte) error {
	return s.db.Delete(namespacedKey(family, key), nil)
}

// NewBatch implements store.Database.
func (s *Store) NewBatch() store.Batch {
	return &batch{db: s.db, b: new(leveldb.Batch)}
}

// Close implements store.Database.
func (s *Store) Close() error {
	return s.db.Close()
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(family store.Family, key, value []byte) error {
	b.b.Put(namespacedKey(family, key), value)
	return nil
}

func (b *batch) Delete(family store.Family, key []byte) error {
	b.b.Delete(namespacedKey(family, key))
	return nil
}

func (b *batch) Write() error {
	return b.db.Write(b.b, nil)
}

func (b *batch) Reset() {
	b.b.Reset()
}

// IsCorrupted reports whether err indicates on-disk corruption, surfaced so
// callers can decide whether repair (rather than plain fatal abort) is
// worthwhile. Not currently exercised by the block data manager, which
// treats every non-NotFound error as fatal per spec.md §7.
func IsCorrupted(err error) bool {
	return errors.IsCorrupted(err)
}
