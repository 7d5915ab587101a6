package service

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// CommentService manages the comment forest embedded in each note.
// Tree manipulation itself is pure (see domain); this service loads
// the note, applies the change, writes the note back, and delivers
// notifications.
type CommentService struct {
	store    *store.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store *store.Store, validate *validation.Validator, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:    store,
		validate: validate,
		logger:   logger,
	}
}

// CommentInput is a comment submission.
type CommentInput struct {
	Author          string `json:"author" validate:"required,max=100"`
	AuthorID        string `json:"author_id,omitempty"`
	AuthorEmail     string `json:"author_email" validate:"required,email"`
	Content         string `json:"content" validate:"required,max=4000"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
}

// LeaveComment adds a comment at the root of the note's forest. The
// submitted ParentCommentID is recorded on the node but does not place
// it under the parent; threaded placement is ReplyToComment's job.
func (s *CommentService) LeaveComment(ctx context.Context, noteID string, input CommentInput) (*domain.Comment, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	c := s.newComment(noteID, input)
	note.Comments = domain.AppendComment(note.Comments, c)
	note.Touch()

	if err := s.store.PutNote(ctx, note); err != nil {
		return nil, err
	}

	if input.AuthorEmail != note.AuthorEmail {
		s.notify(ctx, note.AuthorID, domain.InboxTypeComment,
			fmt.Sprintf("%s commented on %q", input.Author, note.Title),
			note.ID, c.ID, input.AuthorID)
	}

	return &c, nil
}

// ReplyToComment places a reply under the parent comment, rebuilding
// only the touched branch of the forest.
func (s *CommentService) ReplyToComment(ctx context.Context, noteID, parentID string, input CommentInput) (*domain.Comment, error) {
	if err := s.validate.Validate(input); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	parent := domain.FindComment(note.Comments, parentID)
	if parent == nil {
		return nil, domain.ErrCommentNotFound
	}
	parentAuthorEmail := parent.AuthorEmail

	input.ParentCommentID = parentID
	c := s.newComment(noteID, input)

	forest, ok := domain.ReplyTo(note.Comments, parentID, c)
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	note.Comments = forest
	note.Touch()

	if err := s.store.PutNote(ctx, note); err != nil {
		return nil, err
	}

	if input.AuthorEmail != parentAuthorEmail {
		if recipientID := s.userIDByEmail(ctx, parentAuthorEmail); recipientID != "" {
			s.notify(ctx, recipientID, domain.InboxTypeReply,
				fmt.Sprintf("%s replied to your comment on %q", input.Author, note.Title),
				note.ID, c.ID, input.AuthorID)
		}
	}

	return &c, nil
}

// ModifyComment replaces the content of a comment. Only the original
// author may modify it; a mismatched requester gets
// domain.ErrNotCommentAuthor and the forest is untouched.
func (s *CommentService) ModifyComment(ctx context.Context, noteID, commentID, content, requesterEmail string) error {
	if strings.TrimSpace(content) == "" {
		return store.ErrInvalidInput.WithMessage("comment content is empty")
	}

	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return err
	}

	forest, err := domain.ModifyComment(note.Comments, commentID, content, requesterEmail, time.Now())
	if err != nil {
		return err
	}
	note.Comments = forest
	note.Touch()

	return s.store.PutNote(ctx, note)
}

// DeleteComment removes a comment and, with it, its entire subtree —
// replies live physically inside their parent. Authorization matches
// ModifyComment.
func (s *CommentService) DeleteComment(ctx context.Context, noteID, commentID, requesterEmail string) error {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return err
	}

	forest, err := domain.DeleteComment(note.Comments, commentID, requesterEmail)
	if err != nil {
		return err
	}
	note.Comments = forest
	note.Touch()

	return s.store.PutNote(ctx, note)
}

func (s *CommentService) newComment(noteID string, input CommentInput) domain.Comment {
	return domain.Comment{
		ID:              s.store.NewID(id.PrefixComment),
		NoteID:          noteID,
		ParentCommentID: input.ParentCommentID,
		Author:          input.Author,
		AuthorEmail:     input.AuthorEmail,
		Content:         input.Content,
		CreatedAt:       time.Now(),
	}
}

// notify delivers an inbox notification, retried best-effort. A lost
// notification never fails the comment write it rode along with.
func (s *CommentService) notify(ctx context.Context, recipientID string, kind domain.InboxType, message, noteID, commentID, actorID string) {
	item := &domain.InboxItem{
		ID:      s.store.NewID(id.PrefixInbox),
		UserID:  recipientID,
		Type:    kind,
		Title:   "New " + string(kind),
		Message: message,
		Data: domain.InboxData{
			NoteID:      noteID,
			ActorUserID: actorID,
			CommentID:   commentID,
		},
		CreatedAt: time.Now(),
	}

	err := retry.Do(
		func() error { return s.store.PutInboxItem(ctx, item) },
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.Context(ctx),
	)
	if err != nil {
		s.logger.Warn("comment notification dropped",
			"note_id", noteID,
			"recipient_id", recipientID,
			"error", err,
		)
	}
}

// userIDByEmail resolves a user ID from an email with an equality scan
// over the users collection. Comments identify authors by email, so
// reply notifications have to look the recipient up.
func (s *CommentService) userIDByEmail(ctx context.Context, email string) string {
	docs, err := s.store.QueryEqual(ctx, store.CollectionUsers, "email", email)
	if err != nil || len(docs) == 0 {
		return ""
	}

	var u struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(docs[0], &u); err != nil {
		return ""
	}
	return u.ID
}
