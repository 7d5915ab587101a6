package store

import (
	"context"
	"encoding/json/v2"
	"iter"

	"github.com/dgraph-io/badger/v4"
)

// listCollection returns an iterator over every document in a
// collection, skipping secondary index keys.
func listCollection[T any](ctx context.Context, s *Store, collection string) iter.Seq2[*T, error] {
	prefix := []byte(collection + ":")

	return func(yield func(*T, error) bool) {
		_ = s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}
				if isIndexKey(collection, it.Item().Key()) {
					continue
				}

				var doc T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &doc)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&doc, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}
