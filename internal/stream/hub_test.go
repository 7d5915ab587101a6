package stream

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()

	h := NewHub(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Start(ctx)
	return h, cancel
}

func waitForEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()

	select {
	case e, ok := <-ch:
		require.True(t, ok, "event channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestSubscribe_CollectionWatch(t *testing.T) {
	h, cancel := testHub(t)
	defer cancel()

	events, unsub := h.Subscribe("notes", "")
	defer unsub()

	h.Emit(Event{Collection: "notes", DocID: "note-1", Kind: KindSet, Doc: []byte(`{}`)})

	e := waitForEvent(t, events)
	assert.Equal(t, "notes", e.Collection)
	assert.Equal(t, "note-1", e.DocID)
	assert.Equal(t, KindSet, e.Kind)
}

func TestSubscribe_DocFilter(t *testing.T) {
	h, cancel := testHub(t)
	defer cancel()

	events, unsub := h.Subscribe("notes", "note-2")
	defer unsub()

	h.Emit(Event{Collection: "notes", DocID: "note-1", Kind: KindSet})
	h.Emit(Event{Collection: "tags", DocID: "note-2", Kind: KindSet})
	h.Emit(Event{Collection: "notes", DocID: "note-2", Kind: KindDelete})

	e := waitForEvent(t, events)
	assert.Equal(t, "note-2", e.DocID)
	assert.Equal(t, KindDelete, e.Kind)
}

func TestSubscribe_Cancel(t *testing.T) {
	h, cancel := testHub(t)
	defer cancel()

	events, unsub := h.Subscribe("notes", "")
	unsub()
	// Cancel twice is safe.
	unsub()

	_, ok := <-events
	assert.False(t, ok)
}

func TestShutdown_DrainsQueuedEvents(t *testing.T) {
	h := NewHub(slog.New(slog.DiscardHandler))

	events, unsub := h.Subscribe("notes", "")
	defer unsub()

	h.Emit(Event{Collection: "notes", DocID: "note-1", Kind: KindSet})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.Shutdown(ctx))

	e := waitForEvent(t, events)
	assert.Equal(t, "note-1", e.DocID)

	// Emit after shutdown is a no-op, not a panic.
	h.Emit(Event{Collection: "notes", DocID: "note-2", Kind: KindSet})
}
