package domain

import "time"

// InboxType classifies an inbox notification.
type InboxType string

const (
	InboxTypeLike    InboxType = "like"
	InboxTypeComment InboxType = "comment"
	InboxTypeReply   InboxType = "reply"
)

// InboxItem is a notification delivered to a user's inbox as a side
// effect of a like, comment, or reply. It is written best-effort and
// never read back by this layer.
type InboxItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      InboxType `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Data      InboxData `json:"data"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// InboxData carries the references the notification points at.
type InboxData struct {
	NoteID      string `json:"note_id"`
	ActorUserID string `json:"actor_user_id"`
	CommentID   string `json:"comment_id,omitempty"`
}
