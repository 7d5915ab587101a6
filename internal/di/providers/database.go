package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/stream"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// HubHandle wraps the change stream hub with its context for lifecycle
// management.
type HubHandle struct {
	*stream.Hub
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *HubHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Hub.Shutdown(ctx)
}

// ProvideHub provides the change stream hub, already running.
func ProvideHub(i do.Injector) (*HubHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	hub := stream.NewHub(log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Start(ctx)

	log.Info("change stream hub started")

	return &HubHandle{
		Hub:    hub,
		cancel: cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	hubHandle := do.MustInvoke[*HubHandle](i)

	db, err := store.New(cfg.StorePath(), log.Logger, hubHandle.Hub)
	if err != nil {
		return nil, err
	}

	return &StoreHandle{Store: db}, nil
}
