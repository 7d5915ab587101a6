package domain

import (
	"errors"
	"time"
)

// Comment is a single node in a note's comment forest. Children are
// nested inline in Comments, so the whole tree lives inside the Note
// document and deleting a node physically removes its subtree.
//
// ParentCommentID is recorded on every submission but top-level
// submissions always join the root of the forest regardless of it;
// only threaded replies (ReplyTo) place a node under its parent.
type Comment struct {
	ID              string     `json:"id"`
	NoteID          string     `json:"note_id"`
	ParentCommentID string     `json:"parent_comment_id,omitempty"`
	Author          string     `json:"author"`
	AuthorEmail     string     `json:"author_email"`
	Content         string     `json:"content"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	Comments        []Comment  `json:"comments,omitempty"`
}

// Comment tree errors.
var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("unauthorized access to comment")
)

// AppendComment adds the comment at the root level of the forest and
// returns the new forest. The node keeps whatever ParentCommentID it
// carries, but no nesting happens here.
func AppendComment(forest []Comment, c Comment) []Comment {
	out := make([]Comment, 0, len(forest)+1)
	out = append(out, forest...)
	return append(out, c)
}

// FindComment returns the first comment with the given ID in a
// depth-first walk of the forest, or nil if no node matches.
func FindComment(forest []Comment, id string) *Comment {
	for i := range forest {
		if forest[i].ID == id {
			return &forest[i]
		}
		if found := FindComment(forest[i].Comments, id); found != nil {
			return found
		}
	}
	return nil
}

// CountComments returns the total number of nodes in the forest.
func CountComments(forest []Comment) int {
	n := len(forest)
	for i := range forest {
		n += CountComments(forest[i].Comments)
	}
	return n
}

// ReplyTo appends reply under the node with parentID and returns the
// new forest. Only the path from the root to the parent is rebuilt;
// sibling branches are shared with the input. The second return is
// false if parentID does not resolve, in which case the input forest
// is returned unchanged.
func ReplyTo(forest []Comment, parentID string, reply Comment) ([]Comment, bool) {
	for i := range forest {
		if forest[i].ID == parentID {
			out := make([]Comment, len(forest))
			copy(out, forest)
			kids := make([]Comment, 0, len(out[i].Comments)+1)
			kids = append(kids, out[i].Comments...)
			out[i].Comments = append(kids, reply)
			return out, true
		}
		if sub, ok := ReplyTo(forest[i].Comments, parentID, reply); ok {
			out := make([]Comment, len(forest))
			copy(out, forest)
			out[i].Comments = sub
			return out, true
		}
	}
	return forest, false
}

// ModifyComment replaces the content of the node with the given ID and
// stamps UpdatedAt, rebuilding only the touched path. The requester
// must be the node's author; a mismatch returns ErrNotCommentAuthor
// and the forest is left untouched. Returns ErrCommentNotFound if no
// node matches.
func ModifyComment(forest []Comment, id, content, requesterEmail string, now time.Time) ([]Comment, error) {
	for i := range forest {
		if forest[i].ID == id {
			if forest[i].AuthorEmail != requesterEmail {
				return nil, ErrNotCommentAuthor
			}
			out := make([]Comment, len(forest))
			copy(out, forest)
			out[i].Content = content
			out[i].UpdatedAt = &now
			return out, nil
		}

		sub, err := ModifyComment(forest[i].Comments, id, content, requesterEmail, now)
		if errors.Is(err, ErrCommentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out := make([]Comment, len(forest))
		copy(out, forest)
		out[i].Comments = sub
		return out, nil
	}
	return nil, ErrCommentNotFound
}

// DeleteComment removes the node with the given ID together with its
// entire subtree — children live physically inside the node, so they
// go with it. Authorization matches ModifyComment. Returns the new
// forest.
func DeleteComment(forest []Comment, id, requesterEmail string) ([]Comment, error) {
	for i := range forest {
		if forest[i].ID == id {
			if forest[i].AuthorEmail != requesterEmail {
				return nil, ErrNotCommentAuthor
			}
			out := make([]Comment, 0, len(forest)-1)
			out = append(out, forest[:i]...)
			return append(out, forest[i+1:]...), nil
		}

		sub, err := DeleteComment(forest[i].Comments, id, requesterEmail)
		if errors.Is(err, ErrCommentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out := make([]Comment, len(forest))
		copy(out, forest)
		out[i].Comments = sub
		return out, nil
	}
	return nil, ErrCommentNotFound
}

// NormalizeCommentTimes converts every timestamp in the forest to UTC,
// in place. Applied to every document that arrives from a live
// subscription so callers always see one canonical representation.
func NormalizeCommentTimes(forest []Comment) {
	for i := range forest {
		forest[i].CreatedAt = forest[i].CreatedAt.UTC()
		if forest[i].UpdatedAt != nil {
			utc := forest[i].UpdatedAt.UTC()
			forest[i].UpdatedAt = &utc
		}
		NormalizeCommentTimes(forest[i].Comments)
	}
}
