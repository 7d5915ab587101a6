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
)

// noteAuthorIndex maps an author to their notes.
// Layout: notes:idx:author:{authorID}:{noteID} → noteID.
const noteAuthorIndex = "author"

// GetNote retrieves a note by ID.
func (s *Store) GetNote(ctx context.Context, noteID string) (*domain.Note, error) {
	var n domain.Note
	if err := s.GetDoc(ctx, CollectionNotes, noteID, &n); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &n, nil
}

// PutNote writes a note document and maintains the author index.
// The write replaces the stored document wholesale.
func (s *Store) PutNote(ctx context.Context, n *domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal note: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(docKey(CollectionNotes, n.ID), data); err != nil {
			return err
		}
		// Author never changes after creation, so the index entry is
		// simply upserted.
		idxKey := scopedIndexKey(CollectionNotes, noteAuthorIndex, n.AuthorID, n.ID)
		return txn.Set(idxKey, []byte(n.ID))
	})
	if err != nil {
		return err
	}

	s.emit(CollectionNotes, n.ID, stream.KindSet, data)
	return nil
}

// ListNotesByAuthor returns every note owned by the author, via the
// author index.
func (s *Store) ListNotesByAuthor(ctx context.Context, authorID string) ([]*domain.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var noteIDs []string
	prefix := []byte(CollectionNotes + ":idx:" + noteAuthorIndex + ":" + authorID + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				noteIDs = append(noteIDs, string(val))
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

	notes := make([]*domain.Note, 0, len(noteIDs))
	for _, noteID := range noteIDs {
		n, err := s.GetNote(ctx, noteID)
		if errors.Is(err, ErrNoteNotFound) {
			// Index entry outlived its note; skip rather than fail the scan.
			s.logger.Warn("dangling author index entry", "note_id", noteID)
			continue
		}
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, nil
}

// WatchNote subscribes to live updates of a single note. Every event
// is decoded wholesale and passed through the timestamp normalization
// walk before it reaches the caller. The channel closes when cancel is
// called; a nil note signals the document was deleted.
func (s *Store) WatchNote(noteID string) (<-chan *domain.Note, func()) {
	events, cancelWatch := s.Watch(CollectionNotes, noteID)
	out := make(chan *domain.Note, 8)

	done := make(chan struct{})
	cancel := func() {
		close(done)
		cancelWatch()
	}

	go func() {
		defer close(out)
		for event := range events {
			if event.Kind == stream.KindDelete {
				select {
				case out <- nil:
				case <-done:
					return
				}
				continue
			}

			var n domain.Note
			if err := json.Unmarshal(event.Doc, &n); err != nil {
				s.logger.Warn("failed to decode note event", "note_id", noteID, "error", err)
				continue
			}
			n.NormalizeTimestamps()

			select {
			case out <- &n:
			case <-done:
				return
			}
		}
	}()

	return out, cancel
}

// ListNotes returns an iterator over every note in the store.
func (s *Store) ListNotes(ctx context.Context) iter.Seq2[*domain.Note, error] {
	return listCollection[domain.Note](ctx, s, CollectionNotes)
}
