// Package service orchestrates the document store into the system's
// entry points: saving notes with tag fan-out, likes, the
// recently-read cache, comments, and thumbnail propagation. Services
// read, mutate, and write whole documents; each write is atomic but
// nothing spans documents, so every multi-document operation here is a
// sequence of independent writes.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/importer"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// NoteService owns the note lifecycle: create/update with tag fan-out,
// fetch with view counting, and live watching.
type NoteService struct {
	store    *store.Store
	tags     *TagService
	recent   *RecentService
	search   *SearchService // nil disables indexing
	validate *validation.Validator
	logger   *slog.Logger
}

// NewNoteService creates a new note service. search may be nil when
// full-text indexing is not wanted.
func NewNoteService(store *store.Store, tags *TagService, recent *RecentService, search *SearchService, validate *validation.Validator, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:    store,
		tags:     tags,
		recent:   recent,
		search:   search,
		validate: validate,
		logger:   logger,
	}
}

// NoteInput is a note create/update submission. An empty ID creates a
// note; a set ID updates it.
type NoteInput struct {
	ID           string   `json:"id,omitempty"`
	AuthorID     string   `json:"author_id" validate:"required"`
	Title        string   `json:"title" validate:"required,max=200"`
	Content      string   `json:"content"`
	Description  string   `json:"description,omitempty" validate:"max=500"`
	Series       string   `json:"series,omitempty" validate:"max=100"`
	Tags         []string `json:"tags,omitempty" validate:"max=20,dive,required,max=50"`
	IsPublic     bool     `json:"is_public"`
	IsPublished  bool     `json:"is_published"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
}

// SaveNoteWithTags creates or updates a note and fans its snapshot out
// into every named tag and the author's tag cache. On update the
// engagement state — likes, comments, view count, thumbnail — is
// carried over from the stored note; the editor never supplies it.
//
// The tag writes, the user write, and the note write are independent;
// a failure partway leaves the earlier writes in place.
func (s *NoteService) SaveNoteWithTags(ctx context.Context, input NoteInput) (*domain.Note, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}

	var note *domain.Note
	if input.ID == "" {
		note = &domain.Note{
			Syncable:    domain.Syncable{ID: s.store.NewID(id.PrefixNote)},
			AuthorID:    user.ID,
			AuthorEmail: user.Email,
			AuthorName:  user.DisplayName,
		}
		note.InitTimestamps()
	} else {
		note, err = s.store.GetNote(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		if note.AuthorID != input.AuthorID {
			return nil, store.ErrUnauthorized.WithMessage("unauthorized access to note")
		}
		note.Touch()
	}

	note.Title = input.Title
	note.Content = input.Content
	note.Description = input.Description
	note.Series = input.Series
	note.IsPublic = input.IsPublic
	note.IsPublished = input.IsPublished
	if input.ThumbnailURL != "" {
		note.ThumbnailURL = input.ThumbnailURL
	}

	if _, err := s.tags.AttachTagsToNote(ctx, note, input.Tags, user); err != nil {
		return nil, err
	}

	if err := s.store.PutNote(ctx, note); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexNote(note)
	}

	s.logger.Info("note saved",
		"note_id", note.ID,
		"author_id", note.AuthorID,
		"tags", len(note.Tags),
	)

	return note, nil
}

// FetchNote loads a note, counts the view, and touches the viewer's
// recently-read cache. The view count is read-modify-write on the
// whole document: concurrent fetches can lose increments to each
// other. A blank viewerID (anonymous read) skips the cache touch.
func (s *NoteService) FetchNote(ctx context.Context, noteID, viewerID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	note.ViewCount++
	if err := s.store.PutNote(ctx, note); err != nil {
		return nil, err
	}

	if viewerID != "" {
		s.recent.Touch(ctx, viewerID, note, time.Now())
	}

	return note, nil
}

// WatchNote subscribes to live updates of a note. Every event arrives
// with all timestamps, including the whole comment forest, normalized
// to UTC; a nil note signals deletion.
func (s *NoteService) WatchNote(noteID string) (<-chan *domain.Note, func()) {
	return s.store.WatchNote(noteID)
}

// ImportHTML converts an HTML document into a markdown note and saves
// it through the ordinary save path, tags and all.
func (s *NoteService) ImportHTML(ctx context.Context, authorID string, data []byte, tags []string, publish bool) (*domain.Note, error) {
	imported := importer.FromHTML(data)
	if imported.Title == "" {
		imported.Title = "Imported note"
	}

	return s.SaveNoteWithTags(ctx, NoteInput{
		AuthorID:    authorID,
		Title:       imported.Title,
		Content:     imported.Content,
		Tags:        tags,
		IsPublic:    publish,
		IsPublished: publish,
	})
}
