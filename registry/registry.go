// Package registry persists dats, seeders and challenges in leveldb.
//
// All mutations go through a Txn: reads see the Txn's own pending writes,
// and Commit applies them as a single leveldb batch so that an operation
// either lands completely or not at all.
package registry

import (
	"bytes"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	xdr "github.com/nullstyle/go-xdr/xdr3"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/spacemeshos/datverify/shared"
)

var ErrTxnDone = errors.New("transaction already committed or discarded")

type DB struct {
	db    *leveldb.DB
	wo    *opt.WriteOptions
	cache *lru.Cache
}

type options struct {
	cacheSize int
	sync      bool
}

type OptionFunc func(*options)

// WithCacheSize sets the number of decoded dat records kept in memory.
func WithCacheSize(size int) OptionFunc {
	return func(o *options) {
		o.cacheSize = size
	}
}

// WithSync makes every commit fsync before returning.
func WithSync(sync bool) OptionFunc {
	return func(o *options) {
		o.sync = sync
	}
}

// Open opens (or creates) a registry at path.
func Open(path string, opts ...OptionFunc) (*DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry @ %s: %w", path, err)
	}
	return newDB(db, opts...)
}

// OpenInMemory opens a registry backed by memory only.
func OpenInMemory(opts ...OptionFunc) (*DB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory registry: %w", err)
	}
	return newDB(db, opts...)
}

func newDB(db *leveldb.DB, opts ...OptionFunc) (*DB, error) {
	o := options{cacheSize: 1024, sync: true}
	for _, fn := range opts {
		fn(&o)
	}
	cache, err := lru.New(o.cacheSize)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating record cache: %w", err), db.Close())
	}
	return &DB{
		db:    db,
		wo:    &opt.WriteOptions{Sync: o.sync},
		cache: cache,
	}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// Begin starts a transaction. A transaction is not safe for concurrent use.
func (db *DB) Begin() *Txn {
	return &Txn{db: db, writes: make(map[string]write)}
}

// View runs fn against a transaction that is always discarded.
func (db *DB) View(fn func(tx *Txn) error) error {
	tx := db.Begin()
	defer tx.Discard()
	return fn(tx)
}

type write struct {
	value   []byte
	deleted bool
}

type Txn struct {
	db     *DB
	writes map[string]write
	done   bool
}

// Commit atomically applies all writes of the transaction.
func (tx *Txn) Commit() error {
	if tx.done {
		return ErrTxnDone
	}
	tx.done = true
	if len(tx.writes) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for key, w := range tx.writes {
		if w.deleted {
			batch.Delete([]byte(key))
		} else {
			batch.Put([]byte(key), w.value)
		}
	}
	if err := tx.db.db.Write(batch, tx.db.wo); err != nil {
		return fmt.Errorf("committing %d writes: %w", batch.Len(), err)
	}
	for key := range tx.writes {
		tx.db.cache.Remove(key)
	}
	return nil
}

// Discard drops all pending writes. It is safe to call after Commit.
func (tx *Txn) Discard() {
	tx.done = true
	tx.writes = nil
}

func (tx *Txn) raw(key []byte) ([]byte, error) {
	if tx.done {
		return nil, ErrTxnDone
	}
	if w, ok := tx.writes[string(key)]; ok {
		if w.deleted {
			return nil, leveldb.ErrNotFound
		}
		return w.value, nil
	}
	return tx.db.db.Get(key, nil)
}

// get decodes the value under key into v. It reports false if key is absent.
func (tx *Txn) get(key []byte, v any) (bool, error) {
	data, err := tx.raw(key)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("reading %q: %w", key, err)
	}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), v); err != nil {
		return false, fmt.Errorf("%w: decoding %q: %v", shared.ErrInvalidState, key, err)
	}
	return true, nil
}

func (tx *Txn) put(key []byte, v any) error {
	if tx.done {
		return ErrTxnDone
	}
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, v); err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	tx.writes[string(key)] = write{value: buf.Bytes()}
	return nil
}

func (tx *Txn) delete(key []byte) {
	if tx.done {
		return
	}
	tx.writes[string(key)] = write{deleted: true}
}

func (tx *Txn) pending(key []byte) bool {
	_, ok := tx.writes[string(key)]
	return ok
}
