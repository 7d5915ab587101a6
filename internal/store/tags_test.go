package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func makeTag(id, name string) *domain.Tag {
	t := &domain.Tag{
		Syncable: domain.Syncable{ID: id},
		Name:     name,
	}
	t.InitTimestamps()
	return t
}

func TestPutTag_GetTagByName(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutTag(ctx, makeTag("tag-1", "Go")))

	// Lookup is case-insensitive; display casing survives.
	got, err := s.GetTagByName(ctx, "gO")
	require.NoError(t, err)
	assert.Equal(t, "tag-1", got.ID)
	assert.Equal(t, "Go", got.Name)
}

func TestGetTagByName_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetTagByName(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrTagNotFound)
}

func TestPutTag_UpdatesInPlace(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tag := makeTag("tag-1", "Go")
	require.NoError(t, s.PutTag(ctx, tag))

	tag.PostCount = 3
	require.NoError(t, s.PutTag(ctx, tag))

	got, err := s.GetTag(ctx, "tag-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.PostCount)
}

func TestDeleteTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tag := makeTag("tag-1", "Go")
	require.NoError(t, s.PutTag(ctx, tag))
	require.NoError(t, s.DeleteTag(ctx, tag))

	_, err := s.GetTag(ctx, "tag-1")
	assert.ErrorIs(t, err, store.ErrTagNotFound)
	_, err = s.GetTagByName(ctx, "go")
	assert.ErrorIs(t, err, store.ErrTagNotFound)
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutTag(ctx, makeTag("tag-1", "go")))
	require.NoError(t, s.PutTag(ctx, makeTag("tag-2", "rust")))

	var names []string
	for tag, err := range s.ListTags(ctx) {
		require.NoError(t, err)
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"go", "rust"}, names)
}

func TestUsersRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u := &domain.User{
		Syncable:    domain.Syncable{ID: "user-1"},
		Email:       "u@example.com",
		DisplayName: "User One",
	}
	u.InitTimestamps()
	require.NoError(t, s.PutUser(ctx, u))

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "User One", got.DisplayName)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	var count int
	for _, err := range s.ListUsers(ctx) {
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 1, count)
}
