package store_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/stream"
)

// setupTestStore opens a store on a temp directory with a running
// change stream hub. Everything is torn down with the test.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	hub := stream.NewHub(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Start(ctx)

	s, err := store.New(t.TempDir(), nil, hub)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		cancel()
	})

	return s
}
