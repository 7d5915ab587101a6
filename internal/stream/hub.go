// Package stream implements the document change stream: every store
// write is broadcast to subscribers watching the affected collection
// or document.
package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/id"
)

// Kind classifies a document change.
type Kind string

const (
	KindSet    Kind = "set"
	KindDelete Kind = "delete"
)

// Event is a single document change. Doc holds the full document JSON
// after the change; subscribers must treat it as the new ground truth
// and replace local state wholesale, never merge partial updates.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Collection string    `json:"collection"`
	DocID      string    `json:"doc_id"`
	Kind       Kind      `json:"kind"`
	Doc        []byte    `json:"doc,omitempty"`
}

// subscriber is a registered watch on a collection or a single document.
type subscriber struct {
	id         string
	collection string
	docID      string // empty = whole collection
	events     chan Event
	done       chan struct{}
}

// Hub fans document change events out to subscribers.
type Hub struct {
	logger *slog.Logger
	events chan Event

	mu   sync.RWMutex
	subs map[string]*subscriber

	shutdownMu sync.RWMutex
	shutdown   bool

	wg sync.WaitGroup
}

// NewHub creates a new change stream hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		events: make(chan Event, 1024),
		subs:   make(map[string]*subscriber),
	}
}

// Start begins the broadcast loop. Call once, in a goroutine, and
// cancel the context to stop.
func (h *Hub) Start(ctx context.Context) {
	h.wg.Add(1)
	defer h.wg.Done()

	h.logger.Info("change stream hub starting")

	for {
		select {
		case event, ok := <-h.events:
			if !ok {
				// Shutdown closed the queue; the drain goroutine owns
				// whatever is left.
				return
			}
			h.broadcast(event)
		case <-ctx.Done():
			h.logger.Info("change stream hub stopping")
			h.closeAll()
			return
		}
	}
}

// Shutdown stops accepting new events, drains the queue, and closes
// all subscribers.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.shutdownMu.Lock()
	h.shutdown = true
	close(h.events)
	h.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		for event := range h.events {
			h.broadcast(event)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		h.logger.Warn("change stream drain timeout, some events may be lost")
	}

	h.wg.Wait()
	h.closeAll()
	return nil
}

// Emit queues a change event for broadcast. Emit never blocks: if the
// queue is full the event is dropped with a warning, since a live
// stream that lags behind the store is stale either way.
func (h *Hub) Emit(event Event) {
	h.shutdownMu.RLock()
	defer h.shutdownMu.RUnlock()
	if h.shutdown {
		return
	}

	select {
	case h.events <- event:
	default:
		h.logger.Warn("change stream queue full, dropping event",
			"collection", event.Collection,
			"doc_id", event.DocID,
		)
	}
}

// Subscribe registers a watch on a collection (docID == "") or a
// single document. The returned cancel function must be called when
// the watch is no longer needed; the event channel is closed on
// cancel and on hub shutdown.
func (h *Hub) Subscribe(collection, docID string) (<-chan Event, func()) {
	sub := &subscriber{
		id:         id.MustGenerate("sub"),
		collection: collection,
		docID:      docID,
		events:     make(chan Event, 64),
		done:       make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[sub.id]; !ok {
			return
		}
		delete(h.subs, sub.id)
		close(sub.done)
		close(sub.events)
	}

	return sub.events, cancel
}

// broadcast delivers an event to every matching subscriber. Slow
// subscribers have the event dropped rather than blocking the loop.
func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if sub.collection != event.Collection {
			continue
		}
		if sub.docID != "" && sub.docID != event.DocID {
			continue
		}

		select {
		case <-sub.done:
		case sub.events <- event:
		default:
			h.logger.Warn("subscriber lagging, dropping event",
				"subscriber", sub.id,
				"collection", event.Collection,
				"doc_id", event.DocID,
			)
		}
	}
}

// closeAll tears down every subscriber.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sid, sub := range h.subs {
		delete(h.subs, sid)
		close(sub.done)
		close(sub.events)
	}
}
