// Package main is the Inkwell server daemon: it owns the document
// store, the change stream, and the search index, and keeps the index
// in step with the store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/di"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func main() {
	injector := di.NewContainer()
	di.Bootstrap(injector)

	log := do.MustInvoke[*logger.Logger](injector)

	searchSvc := do.MustInvoke[*service.SearchService](injector)
	if count, err := searchSvc.ReindexAll(context.Background()); err != nil {
		log.Warn("startup reindex failed", "error", err)
	} else {
		log.Info("startup reindex complete", "notes", count)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Info("shutting down", "signal", sig.String())

	if err := injector.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
}
