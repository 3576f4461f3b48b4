// Package storage implements the durable key-value schema accounts,
// transactions and blocks are persisted under, on top of BadgerDB.
package storage

import (
	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a lookup by key finds nothing.
var ErrNotFound = errors.New("not found")

const (
	accountCacheSize = 4096
	blockCacheSize   = 256
)

// Store is the durable ledger: accounts, transactions and blocks, backed
// by BadgerDB with a read-through LRU cache over the hot account and
// block-by-hash paths.
type Store struct {
	db *badger.DB

	accountCache *lru.Cache
	blockCache   *lru.Cache

	log zerolog.Logger
}

// Open opens (or creates) a Store at path. An empty path opens an
// in-memory database, used by tests.
func Open(path string, log zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger store")
	}

	accountCache, err := lru.New(accountCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create account cache")
	}
	blockCache, err := lru.New(blockCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create block cache")
	}

	return &Store{
		db:           db,
		accountCache: accountCache,
		blockCache:   blockCache,
		log:          log.With().Str("component", "storage").Logger(),
	}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
