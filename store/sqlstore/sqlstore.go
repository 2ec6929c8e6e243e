// Package sqlstore implements store.Database over an embedded SQLite
// database, the alternate durable-store backend (db_type = SQL in
// spec.md §6). All families share one table, keyed by (family, key).
package sqlstore

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/conflux-chain/bdm/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	family BLOB NOT NULL,
	key    BLOB NOT NULL,
	value  BLOB NOT NULL,
	PRIMARY KEY (family, key)
);
`

// Store wraps an open *sql.DB. Writes are serialized through a mutex since
// SQLite allows only one writer at a time; reads pass through freely.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if absent) a SQLite database file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get implements store.Reader.
func (s *Store) Get(family store.Family, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE family = ? AND key = ?`, byte(family), key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return value, err
}

// Has implements store.Reader.
func (s *Store) Has(family store.Family, key []byte) (bool, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM kv WHERE family = ? AND key = ?`, byte(family), key).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Iterate implements store.Reader. prefix matching compares the key's
// leading len(prefix) bytes (substr) to prefix, in key order, mirroring
// the leveldbstore backend's prefix iteration.
func (s *Store) Iterate(family store.Family, prefix []byte, fn func(key, value []byte) bool) error {
	rows, err := s.db.Query(
		`SELECT key, value FROM kv WHERE family = ? AND substr(key, 1, ?) = ? ORDER BY key`,
		byte(family), len(prefix), prefix,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key, value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		if !fn(key, value) {
			break
		}
	}
	return rows.Err()
}

// Put implements store.Writer.
func (s *Store) Put(family store.Family, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO kv (family, key, value) VALUES (?, ?, ?)
		ON CONFLICT(family, key) DO UPDATE SET value = excluded.value`,
		byte(family), key, value)
	return err
}

// Delete implements store.Writer.
func (s *Store) Delete(family store.Family, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`DELETE FROM kv WHERE family = ? AND key = ?`, byte(family), key)
	return err
}

// NewBatch implements store.Database. Writes are buffered in memory and
// flushed as a single transaction on Write, since database/sql has no
// native write-batch primitive analogous to leveldb.Batch.
func (s *Store) NewBatch() store.Batch {
	return &batch{store: s}
}

// Close implements store.Database.
func (s *Store) Close() error {
	return s.db.Close()
}

type op struct {
	del    bool
	family store.Family
	key    []byte
	value  []byte
}

type batch struct {
	store *Store
	ops   []op
}

func (b *batch) Put(family store.Family, key, value []byte) error {
	b.ops = append(b.ops, op{family: family, key: key, value: value})
	return nil
}

func (b *batch) Delete(family store.Family, key []byte) error {
	b.ops = append(b.ops, op{del: true, family: family, key: key})
	return nil
}

func (b *batch) Write() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	tx, err := b.store.db.Begin()
	if err != nil {
		return err
	}
	for _, o := range b.ops {
		if o.del {
			if _, err := tx.Exec(`DELETE FROM kv WHERE family = ? AND key = ?`, byte(o.family), o.key); err != nil {
				tx.Rollback()
				return err
			}
			continue
		}
		if _, err := tx.Exec(`INSERT INTO kv (family, key, value) VALUES (?, ?, ?)
			ON CONFLICT(family, key) DO UPDATE SET value = excluded.value`,
			byte(o.family), o.key, o.value); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (b *batch) Reset() {
	b.ops = b.ops[:0]
}
