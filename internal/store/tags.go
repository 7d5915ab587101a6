package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/stream"
	"github.com/inkwellapp/inkwell-server/internal/util"
)

// tagNameIndex maps a folded tag name to a tag ID.
// Layout: tags:idx:name:{folded} → tagID.
//
// The index is an upsert, not a uniqueness constraint: two concurrent
// creations of the same brand-new name can both commit their tag
// documents, with the index left pointing at whichever wrote last.
const tagNameIndex = "name"

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	var t domain.Tag
	if err := s.GetDoc(ctx, CollectionTags, tagID, &t); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetTagByName retrieves a tag by case-insensitive name lookup.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tagID string
	idxKey := indexKey(CollectionTags, tagNameIndex, util.FoldTagName(name))

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idxKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			tagID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetTag(ctx, tagID)
}

// PutTag writes a tag document and upserts the name index.
func (s *Store) PutTag(ctx context.Context, t *domain.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal tag: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(docKey(CollectionTags, t.ID), data); err != nil {
			return err
		}
		idxKey := indexKey(CollectionTags, tagNameIndex, util.FoldTagName(t.Name))
		return txn.Set(idxKey, []byte(t.ID))
	})
	if err != nil {
		return err
	}

	s.emit(CollectionTags, t.ID, stream.KindSet, data)
	return nil
}

// DeleteTag removes a tag document and its name index entry.
func (s *Store) DeleteTag(ctx context.Context, t *domain.Tag) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(docKey(CollectionTags, t.ID)); err != nil {
			return err
		}
		return txn.Delete(indexKey(CollectionTags, tagNameIndex, util.FoldTagName(t.Name)))
	})
	if err != nil {
		return err
	}

	s.emit(CollectionTags, t.ID, stream.KindDelete, nil)
	return nil
}

// ListTags returns an iterator over every tag in the store.
func (s *Store) ListTags(ctx context.Context) iter.Seq2[*domain.Tag, error] {
	return listCollection[domain.Tag](ctx, s, CollectionTags)
}
