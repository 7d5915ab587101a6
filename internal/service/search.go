package service

import (
	"context"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// SearchService keeps the full-text index in step with the canonical
// notes and answers queries. Only published notes are indexed.
type SearchService struct {
	index  *search.NoteIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.NoteIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// IndexNote brings the index entry for the note in line with its
// current state: published notes are (re)indexed, everything else is
// removed. Index failures are logged, never failed upward — the store
// write already succeeded and search lags behind it by design.
func (s *SearchService) IndexNote(note *domain.Note) {
	var err error
	if note.IsPublished {
		err = s.index.IndexNote(search.NoteToDocument(note))
	} else {
		err = s.index.DeleteNote(note.ID)
	}
	if err != nil {
		s.logger.Warn("search index update failed", "note_id", note.ID, "error", err)
	}
}

// RemoveNote drops the note from the index.
func (s *SearchService) RemoveNote(noteID string) {
	if err := s.index.DeleteNote(noteID); err != nil {
		s.logger.Warn("search index delete failed", "note_id", noteID, "error", err)
	}
}

// Search runs a query against the note index.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// ReindexAll rebuilds the index from the store. Returns the number of
// notes indexed.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, err
	}

	var docs []*search.NoteDocument
	for note, err := range s.store.ListNotes(ctx) {
		if err != nil {
			return 0, err
		}
		if !note.IsPublished {
			continue
		}
		docs = append(docs, search.NoteToDocument(note))
	}

	if err := s.index.IndexNotes(docs); err != nil {
		return 0, err
	}

	s.logger.Info("search index rebuilt", "notes", len(docs))
	return len(docs), nil
}
