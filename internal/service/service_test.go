package service_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/stream"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

type testEnv struct {
	store    *store.Store
	tags     *service.TagService
	notes    *service.NoteService
	likes    *service.LikeService
	recent   *service.RecentService
	comments *service.CommentService
	thumbs   *service.ThumbnailService
}

// newTestEnv wires the full service stack onto a temp-dir store. The
// search service is left out; indexing has its own package tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	hub := stream.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Start(ctx)

	s, err := store.New(t.TempDir(), logger, hub)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		cancel()
	})

	validate := validation.New()
	tags := service.NewTagService(s, logger)
	recent := service.NewRecentService(s, logger)

	return &testEnv{
		store:    s,
		tags:     tags,
		notes:    service.NewNoteService(s, tags, recent, nil, validate, logger),
		likes:    service.NewLikeService(s, logger),
		recent:   recent,
		comments: service.NewCommentService(s, validate, logger),
		thumbs:   service.NewThumbnailService(s, ratelimit.New(10000, 1000), logger),
	}
}

// seedUser writes a user straight into the store.
func seedUser(t *testing.T, env *testEnv, userID, email, name string) *domain.User {
	t.Helper()

	u := &domain.User{
		Syncable:    domain.Syncable{ID: userID},
		Email:       email,
		DisplayName: name,
	}
	u.InitTimestamps()
	require.NoError(t, env.store.PutUser(context.Background(), u))
	return u
}

// saveNote runs a note through the full save path.
func saveNote(t *testing.T, env *testEnv, input service.NoteInput) *domain.Note {
	t.Helper()

	note, err := env.notes.SaveNoteWithTags(context.Background(), input)
	require.NoError(t, err)
	return note
}
