package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFor(id string) NoteSnapshot {
	return NoteSnapshot{ID: id, Title: "Note " + id}
}

func TestTouchRecentlyRead_InsertsAtFront(t *testing.T) {
	u := &User{}

	u.TouchRecentlyRead(snapshotFor("n1"), time.Now())
	u.TouchRecentlyRead(snapshotFor("n2"), time.Now())

	require.Len(t, u.RecentlyReadNotes, 2)
	assert.Equal(t, "n2", u.RecentlyReadNotes[0].ID)
	assert.Equal(t, "n1", u.RecentlyReadNotes[1].ID)
}

func TestTouchRecentlyRead_MovesExistingToFront(t *testing.T) {
	u := &User{}
	for i := range 5 {
		u.TouchRecentlyRead(snapshotFor(fmt.Sprintf("n%d", i)), time.Now())
	}

	opened := time.Now()
	u.TouchRecentlyRead(snapshotFor("n1"), opened)

	require.Len(t, u.RecentlyReadNotes, 5)
	assert.Equal(t, "n1", u.RecentlyReadNotes[0].ID)
	assert.True(t, u.RecentlyReadNotes[0].RecentlyOpenedAt.Equal(opened))

	// No duplicates.
	seen := map[string]int{}
	for _, s := range u.RecentlyReadNotes {
		seen[s.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "note %s duplicated", id)
	}
}

func TestTouchRecentlyRead_EvictsPastLimit(t *testing.T) {
	u := &User{}
	for i := range RecentlyReadLimit + 5 {
		u.TouchRecentlyRead(snapshotFor(fmt.Sprintf("n%d", i)), time.Now())
	}

	require.Len(t, u.RecentlyReadNotes, RecentlyReadLimit)
	// Most recent first, oldest evicted.
	assert.Equal(t, fmt.Sprintf("n%d", RecentlyReadLimit+4), u.RecentlyReadNotes[0].ID)
	for _, s := range u.RecentlyReadNotes {
		assert.NotEqual(t, "n0", s.ID)
	}
}

func TestMergeTag_DeduplicatesByID(t *testing.T) {
	u := &User{}
	tag := Tag{Syncable: Syncable{ID: "tag-1"}, Name: "go", PostCount: 1}

	u.MergeTag(tag)
	tag.PostCount = 2
	u.MergeTag(tag)

	require.Len(t, u.Tags, 1)
	assert.Equal(t, 2, u.Tags[0].PostCount)
}

func TestLikedNotes(t *testing.T) {
	u := &User{}

	u.AddLikedNote(snapshotFor("n1"))
	u.AddLikedNote(snapshotFor("n1"))
	require.Len(t, u.LikedNotes, 1)
	assert.True(t, u.HasLikedNote("n1"))

	u.RemoveLikedNote("n1")
	assert.Empty(t, u.LikedNotes)
	assert.False(t, u.HasLikedNote("n1"))
}
