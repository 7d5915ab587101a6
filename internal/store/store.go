// Package store implements the multi-collection JSON document store
// the rest of the system persists into. Documents live in Badger under
// collection-prefixed keys; every write is broadcast on the change
// stream. Individual writes are atomic, but there are no transactions
// spanning documents — multi-document operations in the service layer
// are sequences of independent reads and writes.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/stream"
)

// Collection names. A collection is a key prefix, not a schema.
const (
	CollectionNotes = "notes"
	CollectionTags  = "tags"
	CollectionUsers = "users"
	CollectionInbox = "inbox"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Change stream hub. Every successful write is emitted here so
	// live subscribers can follow a collection or a single document.
	hub *stream.Hub
}

// New creates a new Store with the given database path and change
// stream hub. The hub is required; pass a hub that was never started
// if no subscribers are expected (events are then dropped on the
// floor, which is harmless).
func New(path string, logger *slog.Logger, hub *stream.Hub) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
		hub:    hub,
	}

	logger.Info("document store opened", "path", path)

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("closing document store")
	return s.db.Close()
}

// NewID returns a globally unique document ID with the given prefix
// (see the id package for the prefix conventions).
func (s *Store) NewID(prefix string) string {
	return id.MustGenerate(prefix)
}

// docKey builds the primary key for a document.
func docKey(collection, docID string) []byte {
	return []byte(collection + ":" + docID)
}

// indexKey builds a secondary index key.
// Layout: {collection}:idx:{index}:{value} → docID.
func indexKey(collection, index, value string) []byte {
	return []byte(collection + ":idx:" + index + ":" + value)
}

// scopedIndexKey builds a secondary index key carrying the document ID
// in the key itself, for one-to-many indexes.
// Layout: {collection}:idx:{index}:{value}:{docID} → docID.
func scopedIndexKey(collection, index, value, docID string) []byte {
	return []byte(collection + ":idx:" + index + ":" + value + ":" + docID)
}
