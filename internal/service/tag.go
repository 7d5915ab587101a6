package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/util"
)

// TagService orchestrates the global tag registry. Tags are
// community-wide: identity is the case-insensitively folded name, and
// each tag carries a denormalized cache of every note that uses it.
type TagService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store *store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// ErrEmptyTagName is returned when a tag name is blank after trimming.
var ErrEmptyTagName = errors.New("tag name is empty")

// ResolveTag finds a tag by case-insensitive name or creates it. The
// second return reports whether the tag was created. The display
// casing of the first creator wins.
//
// Creation is find-then-create across two independent operations, so
// two concurrent first uses of the same name can each create a tag
// document; the name index then points at whichever wrote last.
func (s *TagService) ResolveTag(ctx context.Context, name, userID string) (*domain.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyTagName
	}

	tag, err := s.store.GetTagByName(ctx, name)
	if err == nil {
		return tag, false, nil
	}
	if !errors.Is(err, store.ErrTagNotFound) {
		return nil, false, err
	}

	tag = &domain.Tag{
		Syncable: domain.Syncable{ID: s.store.NewID(id.PrefixTag)},
		Name:     name,
	}
	tag.InitTimestamps()
	if userID != "" {
		tag.AddUser(userID)
	}

	if err := s.store.PutTag(ctx, tag); err != nil {
		return nil, false, err
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name, "user_id", userID)
	return tag, true, nil
}

// AttachTagsToNote resolves every tag name, sets the note's tag list,
// and fans the note's snapshot out into each tag's note cache and the
// author's tag cache. Returns the resolved tags.
//
// PostCount is incremented on every save of the note, whether or not
// the tag's cache already held it; saving the same note twice counts
// it twice. Nothing on this path ever decrements — only RemoveTag
// does.
func (s *TagService) AttachTagsToNote(ctx context.Context, note *domain.Note, tagNames []string, user *domain.User) ([]domain.Tag, error) {
	// Dedupe by folded name so "go" and "GO" in one save resolve to a
	// single attach, not two stale reads of the same tag document.
	seen := make(map[string]bool, len(tagNames))
	tags := make([]*domain.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		folded := util.FoldTagName(name)
		if seen[folded] {
			continue
		}
		seen[folded] = true

		tag, _, err := s.ResolveTag(ctx, name, user.ID)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	// The note embeds light copies so the snapshot's tag names are
	// complete before any fan-out write happens.
	note.Tags = make([]domain.Tag, 0, len(tags))
	for _, tag := range tags {
		note.Tags = append(note.Tags, lightTag(tag))
	}

	snap := note.Snapshot()
	attached := make([]domain.Tag, 0, len(tags))
	for _, tag := range tags {
		tag.PostCount++

		replaced := false
		for i := range tag.Notes {
			if tag.Notes[i].ID == note.ID {
				tag.Notes[i] = snap
				replaced = true
				break
			}
		}
		if !replaced {
			tag.Notes = append(tag.Notes, snap)
		}

		tag.AddUser(user.ID)
		tag.Touch()

		if err := s.store.PutTag(ctx, tag); err != nil {
			return nil, err
		}

		user.MergeTag(lightTag(tag))
		attached = append(attached, *tag)
	}

	user.Touch()
	if err := s.store.PutUser(ctx, user); err != nil {
		return nil, err
	}

	return attached, nil
}

// RemoveTag detaches a tag from the user's notes and decrements
// PostCount for each detached note — the only decrementing path in the
// system. With a noteID the removal covers just that note; without one
// the tag is stripped from every note the user owns, dropped from
// their tag cache, and the user is removed from the tag's user list.
func (s *TagService) RemoveTag(ctx context.Context, userID, tagID, noteID string) error {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return err
	}

	if noteID != "" {
		return s.removeFromNote(ctx, tag, userID, noteID)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	notes, err := s.store.ListNotesByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	for _, note := range notes {
		if !note.HasTag(tagID) {
			continue
		}
		if err := s.detachFromNote(ctx, tag, note); err != nil {
			return err
		}
	}

	tag.RemoveUser(userID)
	tag.Touch()
	if err := s.store.PutTag(ctx, tag); err != nil {
		return err
	}

	user.DropTag(tagID)
	user.Touch()
	return s.store.PutUser(ctx, user)
}

// removeFromNote handles the single-note mode: only the note's author
// may detach a tag from it. Afterward the author's remaining notes are
// scanned to decide whether the tag stays in their cache — detaching
// the last use drops it, detaching one of several keeps it.
func (s *TagService) removeFromNote(ctx context.Context, tag *domain.Tag, userID, noteID string) error {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return err
	}
	if note.AuthorID != userID {
		return store.ErrUnauthorized.WithMessage("unauthorized access to note")
	}

	if err := s.detachFromNote(ctx, tag, note); err != nil {
		return err
	}

	notes, err := s.store.ListNotesByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	stillUsed := false
	for _, n := range notes {
		if n.HasTag(tag.ID) {
			stillUsed = true
			break
		}
	}

	if !stillUsed {
		tag.RemoveUser(userID)
	}
	tag.Touch()
	if err := s.store.PutTag(ctx, tag); err != nil {
		return err
	}
	if stillUsed {
		return nil
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.DropTag(tag.ID)
	user.Touch()
	return s.store.PutUser(ctx, user)
}

// detachFromNote strips the tag from the note document and removes the
// note's snapshot from the tag cache, decrementing PostCount (floored
// at zero) when a snapshot was actually removed. The tag itself is not
// persisted here; callers write it once at the end.
func (s *TagService) detachFromNote(ctx context.Context, tag *domain.Tag, note *domain.Note) error {
	if note.StripTag(tag.ID) {
		note.Touch()
		if err := s.store.PutNote(ctx, note); err != nil {
			return err
		}
	}

	if tag.RemoveNote(note.ID) && tag.PostCount > 0 {
		tag.PostCount--
	}
	return nil
}

// lightTag copies a tag without its fan-out caches, for embedding in
// notes and user tag lists.
func lightTag(t *domain.Tag) domain.Tag {
	return domain.Tag{
		Syncable:  t.Syncable,
		Name:      t.Name,
		PostCount: t.PostCount,
	}
}
