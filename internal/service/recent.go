package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// RecentService maintains each user's bounded recently-read cache.
type RecentService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRecentService creates a new recently-read service.
func NewRecentService(store *store.Store, logger *slog.Logger) *RecentService {
	return &RecentService{
		store:  store,
		logger: logger,
	}
}

// Touch records the note as the user's most recently opened. Failures
// are logged and swallowed: the cache is a convenience, and the read
// that triggered the touch must never fail because of it.
func (s *RecentService) Touch(ctx context.Context, userID string, note *domain.Note, openedAt time.Time) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		s.logger.Warn("recently-read touch skipped",
			"user_id", userID,
			"note_id", note.ID,
			"error", err,
		)
		return
	}

	user.TouchRecentlyRead(note.Snapshot(), openedAt)
	user.Touch()

	if err := s.store.PutUser(ctx, user); err != nil {
		s.logger.Warn("recently-read touch not persisted",
			"user_id", userID,
			"note_id", note.ID,
			"error", err,
		)
	}
}
