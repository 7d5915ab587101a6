package domain

import "time"

// Note is the canonical record for a single markdown note.
// It is the source of truth that every denormalized NoteSnapshot is
// projected from. The comment forest is embedded directly in the
// document rather than stored as separate rows.
type Note struct {
	Syncable
	AuthorID          string     `json:"author_id"`
	AuthorEmail       string     `json:"author_email"`
	AuthorName        string     `json:"author_name"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	Description       string     `json:"description,omitempty"`
	Tags              []Tag      `json:"tags,omitempty"`
	Series            string     `json:"series,omitempty"`
	IsPublic          bool       `json:"is_public"`
	IsPublished       bool       `json:"is_published"`
	ViewCount         int        `json:"view_count"`
	LikeCount         int        `json:"like_count"`
	LikeUsers         []LikeUser `json:"like_users,omitempty"`
	Comments          []Comment  `json:"comments,omitempty"`
	ThumbnailURL      string     `json:"thumbnail_url,omitempty"`
	ThumbnailBlurHash string     `json:"thumbnail_blur_hash,omitempty"`
	RecentlyOpenedAt  time.Time  `json:"recently_opened_at,omitempty"`
}

// NoteSnapshot is a content-stripped projection of a Note, embedded in
// Tag.Notes, User.LikedNotes and User.RecentlyReadNotes so those views
// render without loading the full note document. Content is always
// empty to bound the size of the documents that carry snapshots.
type NoteSnapshot struct {
	ID                string    `json:"id"`
	PageID            string    `json:"page_id,omitempty"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Content           string    `json:"content"` // Always empty, kept for shape parity with Note
	AuthorID          string    `json:"author_id"`
	AuthorEmail       string    `json:"author_email"`
	AuthorName        string    `json:"author_name"`
	TagNames          []string  `json:"tag_names,omitempty"`
	Series            string    `json:"series,omitempty"`
	ViewCount         int       `json:"view_count"`
	LikeCount         int       `json:"like_count"`
	ThumbnailURL      string    `json:"thumbnail_url,omitempty"`
	ThumbnailBlurHash string    `json:"thumbnail_blur_hash,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	RecentlyOpenedAt  time.Time `json:"recently_opened_at,omitempty"`
}

// Snapshot projects the note into its embeddable form.
// Every fan-out site stores the result of this projection, so drift
// between a snapshot and its source note means a fan-out path was
// skipped, not that the projection disagrees with itself.
func (n *Note) Snapshot() NoteSnapshot {
	tagNames := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		tagNames = append(tagNames, t.Name)
	}

	return NoteSnapshot{
		ID:                n.ID,
		PageID:            n.ID,
		Title:             n.Title,
		Description:       n.Description,
		Content:           "",
		AuthorID:          n.AuthorID,
		AuthorEmail:       n.AuthorEmail,
		AuthorName:        n.AuthorName,
		TagNames:          tagNames,
		Series:            n.Series,
		ViewCount:         n.ViewCount,
		LikeCount:         n.LikeCount,
		ThumbnailURL:      n.ThumbnailURL,
		ThumbnailBlurHash: n.ThumbnailBlurHash,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         n.UpdatedAt,
		RecentlyOpenedAt:  n.RecentlyOpenedAt,
	}
}

// HasLikeFrom reports whether the given user is present in LikeUsers.
func (n *Note) HasLikeFrom(userID string) bool {
	for _, lu := range n.LikeUsers {
		if lu.UID == userID {
			return true
		}
	}
	return false
}

// AddLike appends a LikeUser and bumps the counter.
// Callers must check HasLikeFrom first; AddLike does not deduplicate.
func (n *Note) AddLike(lu LikeUser) {
	n.LikeUsers = append(n.LikeUsers, lu)
	n.LikeCount++
}

// RemoveLike removes the user's like and decrements the counter,
// flooring it at zero. It is a no-op if the user never liked the note.
func (n *Note) RemoveLike(userID string) {
	for i, lu := range n.LikeUsers {
		if lu.UID == userID {
			n.LikeUsers = append(n.LikeUsers[:i], n.LikeUsers[i+1:]...)
			if n.LikeCount > 0 {
				n.LikeCount--
			}
			return
		}
	}
}

// HasTag reports whether the note carries the tag with the given ID.
func (n *Note) HasTag(tagID string) bool {
	for _, t := range n.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// StripTag removes the tag with the given ID from the note's tag list.
// Returns true if the tag was present.
func (n *Note) StripTag(tagID string) bool {
	for i, t := range n.Tags {
		if t.ID == tagID {
			n.Tags = append(n.Tags[:i], n.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// NormalizeTimestamps converts every timestamp on the note, including
// every comment in the embedded forest, to UTC. Documents arriving from
// a live subscription are decoded from their wire form and passed
// through this walk before being handed to callers, so all consumers
// see one canonical representation.
func (n *Note) NormalizeTimestamps() {
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	if !n.RecentlyOpenedAt.IsZero() {
		n.RecentlyOpenedAt = n.RecentlyOpenedAt.UTC()
	}
	NormalizeCommentTimes(n.Comments)
}
