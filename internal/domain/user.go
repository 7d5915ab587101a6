package domain

import "time"

// RecentlyReadLimit caps User.RecentlyReadNotes. The list is kept
// most-recently-opened first and evicted from the tail past this size.
const RecentlyReadLimit = 20

// User represents an account along with the denormalized caches the
// rest of the system fans note data out into. LikedNotes mirrors
// Note.LikeUsers from the user's side; RecentlyReadNotes is a bounded
// MRU of everything the user has opened.
type User struct {
	Syncable
	Email             string         `json:"email"`
	DisplayName       string         `json:"display_name"`
	PhotoURL          string         `json:"photo_url,omitempty"`
	Bio               string         `json:"bio,omitempty"`
	Tags              []Tag          `json:"tags,omitempty"`
	LikedNotes        []NoteSnapshot `json:"liked_notes,omitempty"`
	RecentlyReadNotes []NoteSnapshot `json:"recently_read_notes,omitempty"`
	FollowersCount    int            `json:"followers_count"`
	FollowingCount    int            `json:"following_count"`
}

// LikeUser is the snapshot of a liking user embedded in Note.LikeUsers.
type LikeUser struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

// AsLikeUser projects the user into the form embedded in Note.LikeUsers.
func (u *User) AsLikeUser() LikeUser {
	return LikeUser{
		UID:         u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
		JoinedAt:    u.CreatedAt,
	}
}

// HasLikedNote reports whether LikedNotes holds a snapshot of the note.
func (u *User) HasLikedNote(noteID string) bool {
	for _, s := range u.LikedNotes {
		if s.ID == noteID {
			return true
		}
	}
	return false
}

// AddLikedNote appends a snapshot to LikedNotes if absent.
func (u *User) AddLikedNote(snap NoteSnapshot) {
	if !u.HasLikedNote(snap.ID) {
		u.LikedNotes = append(u.LikedNotes, snap)
	}
}

// RemoveLikedNote drops the note's snapshot from LikedNotes.
func (u *User) RemoveLikedNote(noteID string) {
	for i, s := range u.LikedNotes {
		if s.ID == noteID {
			u.LikedNotes = append(u.LikedNotes[:i], u.LikedNotes[i+1:]...)
			return
		}
	}
}

// HasTag reports whether the user's tag cache holds the tag.
func (u *User) HasTag(tagID string) bool {
	for _, t := range u.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// MergeTag adds the tag to the user's tag cache, deduplicated by ID.
// An existing entry is refreshed in place so the cache tracks the
// tag's current counters.
func (u *User) MergeTag(tag Tag) {
	for i, t := range u.Tags {
		if t.ID == tag.ID {
			u.Tags[i] = tag
			return
		}
	}
	u.Tags = append(u.Tags, tag)
}

// DropTag removes the tag from the user's tag cache.
func (u *User) DropTag(tagID string) {
	for i, t := range u.Tags {
		if t.ID == tagID {
			u.Tags = append(u.Tags[:i], u.Tags[i+1:]...)
			return
		}
	}
}

// TouchRecentlyRead records the snapshot as the most recently opened
// note. An existing entry moves to the front with a refreshed
// RecentlyOpenedAt instead of duplicating; a new entry is inserted at
// the front and the tail is evicted past RecentlyReadLimit.
func (u *User) TouchRecentlyRead(snap NoteSnapshot, openedAt time.Time) {
	snap.RecentlyOpenedAt = openedAt

	for i, s := range u.RecentlyReadNotes {
		if s.ID == snap.ID {
			copy(u.RecentlyReadNotes[1:i+1], u.RecentlyReadNotes[:i])
			u.RecentlyReadNotes[0] = snap
			return
		}
	}

	u.RecentlyReadNotes = append([]NoteSnapshot{snap}, u.RecentlyReadNotes...)
	if len(u.RecentlyReadNotes) > RecentlyReadLimit {
		u.RecentlyReadNotes = u.RecentlyReadNotes[:RecentlyReadLimit]
	}
}
