package store

import (
	"context"
	"iter"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// PutInboxItem writes an inbox notification. Notifications are only
// ever written by this layer — reading and marking them is the inbox
// UI's concern.
func (s *Store) PutInboxItem(ctx context.Context, item *domain.InboxItem) error {
	return s.SetDoc(ctx, CollectionInbox, item.ID, item, false)
}

// ListInboxItems returns an iterator over every inbox notification.
// Used by the database inspector and tests.
func (s *Store) ListInboxItems(ctx context.Context) iter.Seq2[*domain.InboxItem, error] {
	return listCollection[domain.InboxItem](ctx, s, CollectionInbox)
}
