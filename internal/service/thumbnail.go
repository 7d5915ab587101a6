package service

import (
	"context"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/media/images"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// Limiter keys for the fan-out scans.
const (
	scanKeyTags  = "tags"
	scanKeyUsers = "users"
)

// ThumbnailService updates a note's thumbnail and rewrites every
// denormalized snapshot that carries it: the note caches on tags, and
// the liked/recently-read caches on every user.
type ThumbnailService struct {
	store   *store.Store
	limiter *ratelimit.KeyedLimiter
	logger  *slog.Logger
}

// NewThumbnailService creates a new thumbnail service. The limiter
// paces the full-collection scans.
func NewThumbnailService(store *store.Store, limiter *ratelimit.KeyedLimiter, logger *slog.Logger) *ThumbnailService {
	return &ThumbnailService{
		store:   store,
		limiter: limiter,
		logger:  logger,
	}
}

// UpdateThumbnail sets the note's thumbnail URL and propagates the
// change into every snapshot of the note. Only the note's owner may
// update it. When image bytes are provided a BlurHash placeholder is
// computed and carried alongside the URL; a failed computation is
// logged and the update proceeds without it.
//
// The propagation scans the entire tags and users collections — there
// is no reverse index from a note to the users caching it. The scan is
// paced by the limiter, and snapshot rewrite failures are logged, not
// returned: the canonical note is already updated, and stragglers are
// repaired by the next fan-out that touches them.
func (s *ThumbnailService) UpdateThumbnail(ctx context.Context, userID, noteID, url string, imageData []byte) error {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != userID {
		return store.ErrUnauthorized.WithMessage("unauthorized access to note")
	}

	note.ThumbnailURL = url
	if len(imageData) > 0 {
		hash, err := images.ComputeBlurHash(imageData)
		if err != nil {
			s.logger.Warn("blurhash computation failed", "note_id", noteID, "error", err)
		} else {
			note.ThumbnailBlurHash = hash
		}
	}
	note.Touch()

	if err := s.store.PutNote(ctx, note); err != nil {
		return err
	}

	snap := note.Snapshot()
	s.rewriteTagSnapshots(ctx, snap)
	s.rewriteUserSnapshots(ctx, snap)

	return nil
}

// rewriteTagSnapshots refreshes the note's snapshot in every tag cache
// that holds it.
func (s *ThumbnailService) rewriteTagSnapshots(ctx context.Context, snap domain.NoteSnapshot) {
	for tag, err := range s.store.ListTags(ctx) {
		if err != nil {
			s.logger.Warn("tag fan-out scan aborted", "note_id", snap.ID, "error", err)
			return
		}
		if err := s.limiter.Wait(ctx, scanKeyTags); err != nil {
			return
		}

		if !replaceSnapshot(tag.Notes, snap) {
			continue
		}
		tag.Touch()
		if err := s.store.PutTag(ctx, tag); err != nil {
			s.logger.Warn("tag snapshot rewrite failed",
				"tag_id", tag.ID,
				"note_id", snap.ID,
				"error", err,
			)
		}
	}
}

// rewriteUserSnapshots refreshes the note's snapshot wherever a user
// caches it, in LikedNotes and RecentlyReadNotes.
func (s *ThumbnailService) rewriteUserSnapshots(ctx context.Context, snap domain.NoteSnapshot) {
	for user, err := range s.store.ListUsers(ctx) {
		if err != nil {
			s.logger.Warn("user fan-out scan aborted", "note_id", snap.ID, "error", err)
			return
		}
		if err := s.limiter.Wait(ctx, scanKeyUsers); err != nil {
			return
		}

		liked := replaceSnapshot(user.LikedNotes, snap)
		recent := replaceSnapshot(user.RecentlyReadNotes, snap)
		if !liked && !recent {
			continue
		}
		user.Touch()
		if err := s.store.PutUser(ctx, user); err != nil {
			s.logger.Warn("user snapshot rewrite failed",
				"user_id", user.ID,
				"note_id", snap.ID,
				"error", err,
			)
		}
	}
}

// replaceSnapshot swaps the matching snapshot in place, preserving the
// slot's RecentlyOpenedAt — the fan-out must not reorder anyone's
// recently-read cache. Returns whether a snapshot was replaced.
func replaceSnapshot(snaps []domain.NoteSnapshot, snap domain.NoteSnapshot) bool {
	for i := range snaps {
		if snaps[i].ID == snap.ID {
			openedAt := snaps[i].RecentlyOpenedAt
			snaps[i] = snap
			snaps[i].RecentlyOpenedAt = openedAt
			return true
		}
	}
	return false
}
