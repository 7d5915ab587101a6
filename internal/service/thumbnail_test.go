package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func testImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			img.Set(x, y, color.RGBA{R: uint8(3 * x), G: uint8(4 * y), B: 90, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpdateThumbnail_FanOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env, "user-1", "ada@example.com", "Ada")
	seedUser(t, env, "user-2", "brin@example.com", "Brin")

	note := saveNote(t, env, service.NoteInput{AuthorID: "user-1", Title: "On generics", Tags: []string{"go"}})

	// Spread snapshots around: into the tag cache (via save), the
	// liker's LikedNotes, and the reader's RecentlyReadNotes.
	require.NoError(t, env.likes.SetLiked(ctx, "user-2", note.ID, true))
	_, err := env.notes.FetchNote(ctx, note.ID, "user-2")
	require.NoError(t, err)

	const url = "https://cdn.example.com/thumbs/go.png"
	require.NoError(t, env.thumbs.UpdateThumbnail(ctx, "user-1", note.ID, url, testImage(t)))

	got, err := env.store.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, url, got.ThumbnailURL)
	assert.NotEmpty(t, got.ThumbnailBlurHash)

	tag, err := env.store.GetTagByName(ctx, "go")
	require.NoError(t, err)
	require.Len(t, tag.Notes, 1)
	assert.Equal(t, url, tag.Notes[0].ThumbnailURL)
	assert.Equal(t, got.ThumbnailBlurHash, tag.Notes[0].ThumbnailBlurHash)

	user, err := env.store.GetUser(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, user.LikedNotes, 1)
	assert.Equal(t, url, user.LikedNotes[0].ThumbnailURL)
	require.Len(t, user.RecentlyReadNotes, 1)
	assert.Equal(t, url, user.RecentlyReadNotes[0].ThumbnailURL)
	assert.False(t, user.RecentlyReadNotes[0].RecentlyOpenedAt.IsZero(),
		"fan-out keeps the recently-read order intact")
}

func TestUpdateThumbnail_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env, "user-1", "ada@example.com", "Ada")
	seedUser(t, env, "user-2", "brin@example.com", "Brin")

	note := saveNote(t, env, service.NoteInput{AuthorID: "user-1", Title: "On generics"})

	err := env.thumbs.UpdateThumbnail(ctx, "user-2", note.ID, "https://cdn.example.com/t.png", nil)

	var storeErr *store.Error
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.ErrUnauthorized.Code, storeErr.Code)

	got, err := env.store.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ThumbnailURL)
}

func TestUpdateThumbnail_BadImageStillUpdatesURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env, "user-1", "ada@example.com", "Ada")

	note := saveNote(t, env, service.NoteInput{AuthorID: "user-1", Title: "On generics"})

	const url = "https://cdn.example.com/t.png"
	require.NoError(t, env.thumbs.UpdateThumbnail(ctx, "user-1", note.ID, url, []byte("not an image")))

	got, err := env.store.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, url, got.ThumbnailURL)
	assert.Empty(t, got.ThumbnailBlurHash)
}

func TestUpdateThumbnail_UntouchedUsersStayUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env, "user-1", "ada@example.com", "Ada")
	bystander := seedUser(t, env, "user-3", "casey@example.com", "Casey")

	note := saveNote(t, env, service.NoteInput{AuthorID: "user-1", Title: "On generics"})

	require.NoError(t, env.thumbs.UpdateThumbnail(ctx, "user-1", note.ID, "https://cdn.example.com/t.png", nil))

	got, err := env.store.GetUser(ctx, "user-3")
	require.NoError(t, err)
	assert.Equal(t, bystander.UpdatedAt.Unix(), got.UpdatedAt.Unix(),
		"users without a snapshot of the note are not rewritten")
}
