package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell-server/internal/stream"
)

// GetDoc retrieves a document by ID and unmarshals it into dest.
// Returns ErrNotFound if the document does not exist.
func (s *Store) GetDoc(ctx context.Context, collection, docID string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := docKey(collection, docID)

	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, dest); err != nil {
				return fmt.Errorf("failed to unmarshal document: %w", err)
			}
			return nil
		})
	})
}

// SetDoc writes a document. With merge=false the document is replaced
// wholesale; with merge=true the given fields are shallow-merged over
// the stored document (absent fields keep their stored values). The
// write is emitted on the change stream.
func (s *Store) SetDoc(ctx context.Context, collection, docID string, doc any, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	key := docKey(collection, docID)
	var final []byte

	err = s.db.Update(func(txn *badger.Txn) error {
		final = data

		if merge {
			item, err := txn.Get(key)
			if err == nil {
				var stored map[string]any
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &stored)
				}); err != nil {
					return fmt.Errorf("failed to unmarshal stored document: %w", err)
				}

				var overlay map[string]any
				if err := json.Unmarshal(data, &overlay); err != nil {
					return fmt.Errorf("failed to unmarshal merge overlay: %w", err)
				}
				for k, v := range overlay {
					stored[k] = v
				}

				merged, err := json.Marshal(stored)
				if err != nil {
					return fmt.Errorf("failed to marshal merged document: %w", err)
				}
				final = merged
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to get existing key: %w", err)
			}
		}

		return txn.Set(key, final)
	})
	if err != nil {
		return err
	}

	s.emit(collection, docID, stream.KindSet, final)
	return nil
}

// UpdateFields applies a partial update to named top-level fields of a
// stored document. Returns ErrNotFound if the document does not exist.
func (s *Store) UpdateFields(ctx context.Context, collection, docID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := docKey(collection, docID)
	var final []byte

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		var stored map[string]any
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return fmt.Errorf("failed to unmarshal stored document: %w", err)
		}

		for k, v := range fields {
			stored[k] = v
		}

		final, err = json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal updated document: %w", err)
		}

		return txn.Set(key, final)
	})
	if err != nil {
		return err
	}

	s.emit(collection, docID, stream.KindSet, final)
	return nil
}

// DeleteDoc removes a document. The operation is idempotent — deleting
// an absent document is not an error.
func (s *Store) DeleteDoc(ctx context.Context, collection, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(docKey(collection, docID))
	})
	if err != nil {
		return err
	}

	s.emit(collection, docID, stream.KindDelete, nil)
	return nil
}

// QueryEqual returns the raw JSON of every document in the collection
// whose top-level field equals value. This is a full collection scan;
// point lookups that matter (tag by name, notes by author) go through
// dedicated secondary indexes instead.
func (s *Store) QueryEqual(ctx context.Context, collection, field, value string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results [][]byte
	prefix := []byte(collection + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isIndexKey(collection, it.Item().Key()) {
				continue
			}

			err := it.Item().Value(func(val []byte) error {
				var doc map[string]any
				if err := json.Unmarshal(val, &doc); err != nil {
					return fmt.Errorf("failed to unmarshal document: %w", err)
				}
				if got, ok := doc[field].(string); ok && got == value {
					results = append(results, append([]byte(nil), val...))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Watch subscribes to the change stream for a collection (docID == "")
// or a single document. Call the returned cancel function to stop.
func (s *Store) Watch(collection, docID string) (<-chan stream.Event, func()) {
	return s.hub.Subscribe(collection, docID)
}

// emit broadcasts a change event; it never fails the triggering write.
func (s *Store) emit(collection, docID string, kind stream.Kind, doc []byte) {
	s.hub.Emit(stream.Event{
		Timestamp:  time.Now(),
		Collection: collection,
		DocID:      docID,
		Kind:       kind,
		Doc:        doc,
	})
}

// isIndexKey reports whether a key under the collection prefix is a
// secondary index entry rather than a document.
func isIndexKey(collection string, key []byte) bool {
	return strings.HasPrefix(string(key), collection+":idx:")
}
