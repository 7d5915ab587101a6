package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// LikeService keeps the two sides of a like in step: Note.LikeUsers on
// the note and User.LikedNotes on the user, plus a notification to the
// note's author.
type LikeService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLikeService creates a new like service.
func NewLikeService(store *store.Store, logger *slog.Logger) *LikeService {
	return &LikeService{
		store:  store,
		logger: logger,
	}
}

// SetLiked sets whether the user likes the note. Repeating the current
// state is a no-op, not an error.
//
// The note update, the user update, and the author notification are
// three independent writes issued concurrently. Each is individually
// atomic but there is no transaction across them and no rollback: a
// partial failure leaves the sides out of step until the next
// successful SetLiked for the pair.
func (s *LikeService) SetLiked(ctx context.Context, userID, noteID string, liked bool) error {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if liked == note.HasLikeFrom(userID) {
		return nil
	}

	if liked {
		note.AddLike(user.AsLikeUser())
		user.AddLikedNote(note.Snapshot())
	} else {
		note.RemoveLike(userID)
		user.RemoveLikedNote(noteID)
	}
	note.Touch()
	user.Touch()

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = s.store.PutNote(ctx, note)
	}()
	go func() {
		defer wg.Done()
		errs[1] = s.store.PutUser(ctx, user)
	}()

	if liked && note.AuthorID != userID {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.notifyLike(ctx, note, user)
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}

// notifyLike drops a notification into the note author's inbox. The
// write is retried a few times and then given up on; a lost
// notification never fails the like.
func (s *LikeService) notifyLike(ctx context.Context, note *domain.Note, user *domain.User) {
	item := &domain.InboxItem{
		ID:      s.store.NewID(id.PrefixInbox),
		UserID:  note.AuthorID,
		Type:    domain.InboxTypeLike,
		Title:   "New like",
		Message: fmt.Sprintf("%s liked %q", user.DisplayName, note.Title),
		Data: domain.InboxData{
			NoteID:      note.ID,
			ActorUserID: user.ID,
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
		s.logger.Warn("like notification dropped",
			"note_id", note.ID,
			"author_id", note.AuthorID,
			"error", err,
		)
	}
}
