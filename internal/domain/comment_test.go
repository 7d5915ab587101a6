package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeComment(id, email, content string) Comment {
	return Comment{
		ID:          id,
		NoteID:      "note-1",
		Author:      "Author of " + id,
		AuthorEmail: email,
		Content:     content,
		CreatedAt:   time.Now(),
	}
}

func TestAppendComment_AlwaysRoot(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "first"))

	// A submission carrying a parent linkage still joins the root.
	child := makeComment("c2", "b@example.com", "second")
	child.ParentCommentID = "c1"
	forest = AppendComment(forest, child)

	require.Len(t, forest, 2)
	assert.Empty(t, forest[0].Comments)
	assert.Equal(t, "c1", forest[1].ParentCommentID)
}

func TestReplyTo_NestsUnderParent(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))

	forest, ok := ReplyTo(forest, "c1", makeComment("c2", "b@example.com", "reply"))
	require.True(t, ok)
	forest, ok = ReplyTo(forest, "c2", makeComment("c3", "c@example.com", "deep reply"))
	require.True(t, ok)

	found := FindComment(forest, "c3")
	require.NotNil(t, found)
	assert.Equal(t, "deep reply", found.Content)

	// c3 sits three levels deep: c1 → c2 → c3.
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Comments, 1)
	require.Len(t, forest[0].Comments[0].Comments, 1)
	assert.Equal(t, "c3", forest[0].Comments[0].Comments[0].ID)
}

func TestReplyTo_MissingParent(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))

	out, ok := ReplyTo(forest, "nope", makeComment("c2", "b@example.com", "orphan"))
	assert.False(t, ok)
	assert.Equal(t, forest, out)
}

func TestReplyTo_SharesUntouchedBranches(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "left"))
	forest = AppendComment(forest, makeComment("c2", "a@example.com", "right"))
	forest, ok := ReplyTo(forest, "c1", makeComment("c3", "b@example.com", "kid"))
	require.True(t, ok)

	before := forest
	after, ok := ReplyTo(forest, "c2", makeComment("c4", "b@example.com", "other kid"))
	require.True(t, ok)

	// The untouched left branch keeps its backing array.
	require.Len(t, before[0].Comments, 1)
	assert.Equal(t, &before[0].Comments[0], &after[0].Comments[0])
	// The original forest is unchanged.
	assert.Empty(t, before[1].Comments)
}

func TestFindComment_DepthFirst(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))
	forest, _ = ReplyTo(forest, "c1", makeComment("c2", "b@example.com", "mid"))
	forest, _ = ReplyTo(forest, "c2", makeComment("c3", "c@example.com", "leaf"))

	assert.NotNil(t, FindComment(forest, "c1"))
	assert.NotNil(t, FindComment(forest, "c2"))
	assert.NotNil(t, FindComment(forest, "c3"))
	assert.Nil(t, FindComment(forest, "c4"))
}

func TestModifyComment(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))
	forest, _ = ReplyTo(forest, "c1", makeComment("c2", "b@example.com", "before"))

	now := time.Now()
	out, err := ModifyComment(forest, "c2", "after", "b@example.com", now)
	require.NoError(t, err)

	modified := FindComment(out, "c2")
	require.NotNil(t, modified)
	assert.Equal(t, "after", modified.Content)
	require.NotNil(t, modified.UpdatedAt)
	assert.True(t, modified.UpdatedAt.Equal(now))

	// Input forest untouched.
	assert.Equal(t, "before", FindComment(forest, "c2").Content)
}

func TestModifyComment_WrongAuthor(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))

	_, err := ModifyComment(forest, "c1", "hacked", "evil@example.com", time.Now())
	assert.ErrorIs(t, err, ErrNotCommentAuthor)
	assert.Equal(t, "root", FindComment(forest, "c1").Content)
}

func TestModifyComment_NotFound(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))

	_, err := ModifyComment(forest, "missing", "x", "a@example.com", time.Now())
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeleteComment_RemovesSubtree(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))
	forest = AppendComment(forest, makeComment("other", "z@example.com", "bystander"))
	forest, _ = ReplyTo(forest, "c1", makeComment("c2", "b@example.com", "mid"))
	forest, _ = ReplyTo(forest, "c2", makeComment("c3", "c@example.com", "leaf"))

	require.Equal(t, 4, CountComments(forest))

	out, err := DeleteComment(forest, "c1", "a@example.com")
	require.NoError(t, err)

	// c1's whole subtree (c1, c2, c3) goes together.
	assert.Equal(t, 1, CountComments(out))
	assert.Nil(t, FindComment(out, "c1"))
	assert.Nil(t, FindComment(out, "c2"))
	assert.Nil(t, FindComment(out, "c3"))
	assert.NotNil(t, FindComment(out, "other"))
}

func TestDeleteComment_NestedNode(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))
	forest, _ = ReplyTo(forest, "c1", makeComment("c2", "b@example.com", "mid"))
	forest, _ = ReplyTo(forest, "c2", makeComment("c3", "c@example.com", "leaf"))

	out, err := DeleteComment(forest, "c2", "b@example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, CountComments(out))
	assert.NotNil(t, FindComment(out, "c1"))
	assert.Nil(t, FindComment(out, "c3"))
}

func TestDeleteComment_WrongAuthor(t *testing.T) {
	forest := AppendComment(nil, makeComment("c1", "a@example.com", "root"))

	_, err := DeleteComment(forest, "c1", "evil@example.com")
	assert.ErrorIs(t, err, ErrNotCommentAuthor)
	assert.Equal(t, 1, CountComments(forest))
}

func TestNormalizeCommentTimes(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)
	forest := []Comment{{
		ID:        "c1",
		CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, loc),
		UpdatedAt: &updated,
		Comments: []Comment{{
			ID:        "c2",
			CreatedAt: time.Date(2025, 5, 2, 9, 0, 0, 0, loc),
		}},
	}}

	NormalizeCommentTimes(forest)

	assert.Equal(t, time.UTC, forest[0].CreatedAt.Location())
	assert.Equal(t, time.UTC, forest[0].UpdatedAt.Location())
	assert.Equal(t, time.UTC, forest[0].Comments[0].CreatedAt.Location())
}
