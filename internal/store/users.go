package store

import (
	"context"
	"errors"
	"iter"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	if err := s.GetDoc(ctx, CollectionUsers, userID, &u); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// PutUser writes a user document wholesale.
func (s *Store) PutUser(ctx context.Context, u *domain.User) error {
	return s.SetDoc(ctx, CollectionUsers, u.ID, u, false)
}

// ListUsers returns an iterator over every user in the store. Fan-out
// paths that rewrite cached snapshots walk this to visit the whole
// collection.
func (s *Store) ListUsers(ctx context.Context) iter.Seq2[*domain.User, error] {
	return listCollection[domain.User](ctx, s, CollectionUsers)
}
