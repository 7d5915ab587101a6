package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func makeNote(id, authorID string) *domain.Note {
	n := &domain.Note{
		Syncable:    domain.Syncable{ID: id},
		AuthorID:    authorID,
		AuthorEmail: authorID + "@example.com",
		AuthorName:  "Author " + authorID,
		Title:       "Note " + id,
		Content:     "# body",
	}
	n.InitTimestamps()
	return n
}

func TestPutNote_GetNote(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n := makeNote("note-1", "user-1")
	require.NoError(t, s.PutNote(ctx, n))

	got, err := s.GetNote(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, n.AuthorID, got.AuthorID)
}

func TestGetNote_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetNote(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNoteNotFound)
}

func TestListNotesByAuthor(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutNote(ctx, makeNote("note-1", "user-1")))
	require.NoError(t, s.PutNote(ctx, makeNote("note-2", "user-1")))
	require.NoError(t, s.PutNote(ctx, makeNote("note-3", "user-2")))

	notes, err := s.ListNotesByAuthor(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, "user-1", n.AuthorID)
	}

	notes, err = s.ListNotesByAuthor(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestWatchNote(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	updates, cancel := s.WatchNote("note-1")
	defer cancel()

	n := makeNote("note-1", "user-1")
	n.Comments = []domain.Comment{{ID: "c1", Content: "hi", CreatedAt: time.Now()}}
	require.NoError(t, s.PutNote(ctx, n))

	select {
	case got := <-updates:
		require.NotNil(t, got)
		assert.Equal(t, "note-1", got.ID)
		// Subscription events arrive with normalized timestamps.
		assert.Equal(t, time.UTC, got.CreatedAt.Location())
		require.Len(t, got.Comments, 1)
		assert.Equal(t, time.UTC, got.Comments[0].CreatedAt.Location())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for note update")
	}
}

func TestWatchNote_DeleteSignalsNil(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutNote(ctx, makeNote("note-1", "user-1")))

	updates, cancel := s.WatchNote("note-1")
	defer cancel()

	require.NoError(t, s.DeleteDoc(ctx, store.CollectionNotes, "note-1"))

	select {
	case got := <-updates:
		assert.Nil(t, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delete event")
	}
}

func TestListNotes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutNote(ctx, makeNote("note-1", "user-1")))
	require.NoError(t, s.PutNote(ctx, makeNote("note-2", "user-2")))

	var count int
	for n, err := range s.ListNotes(ctx) {
		require.NoError(t, err)
		require.NotNil(t, n)
		count++
	}
	assert.Equal(t, 2, count)
}
