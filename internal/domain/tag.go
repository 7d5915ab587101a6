package domain

// Tag is a global, shared tag. Tags are community-wide: any user who
// saves a note with a tag name becomes one of its UserIDs, and the tag
// carries a denormalized fan-out cache of every note that uses it.
// Name keeps the display casing of whoever created the tag; identity is
// decided case-insensitively (see util.FoldTagName).
type Tag struct {
	Syncable
	Name      string         `json:"name"`
	UserIDs   []string       `json:"user_ids,omitempty"`
	PostCount int            `json:"post_count"`
	Notes     []NoteSnapshot `json:"notes,omitempty"`
}

// HasNote reports whether the tag's fan-out cache already holds a
// snapshot for the given note.
func (t *Tag) HasNote(noteID string) bool {
	for _, s := range t.Notes {
		if s.ID == noteID {
			return true
		}
	}
	return false
}

// RemoveNote drops the snapshot for the given note from the fan-out
// cache. Returns true if a snapshot was removed.
func (t *Tag) RemoveNote(noteID string) bool {
	for i, s := range t.Notes {
		if s.ID == noteID {
			t.Notes = append(t.Notes[:i], t.Notes[i+1:]...)
			return true
		}
	}
	return false
}

// HasUser reports whether the user is already recorded as having used
// this tag.
func (t *Tag) HasUser(userID string) bool {
	for _, id := range t.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddUser records the user as a tag user, deduplicated by ID.
func (t *Tag) AddUser(userID string) {
	if !t.HasUser(userID) {
		t.UserIDs = append(t.UserIDs, userID)
	}
}

// RemoveUser drops the user from the tag's user list.
func (t *Tag) RemoveUser(userID string) {
	for i, id := range t.UserIDs {
		if id == userID {
			t.UserIDs = append(t.UserIDs[:i], t.UserIDs[i+1:]...)
			return
		}
	}
}
