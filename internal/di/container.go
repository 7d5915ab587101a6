// Package di provides dependency injection configuration for the
// Inkwell server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/di/providers"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// NewContainer creates and configures the DI container with all
// providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideHub)
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideFanoutLimiter)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideRecentService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideLikeService)
	do.Provide(injector, providers.ProvideCommentService)
	do.Provide(injector, providers.ProvideThumbnailService)

	return injector
}

// Bootstrap triggers lazy initialization of every service so startup
// failures surface immediately rather than on first use.
func Bootstrap(injector *do.RootScope) {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.HubHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.RecentService](injector)
	_ = do.MustInvoke[*service.NoteService](injector)
	_ = do.MustInvoke[*service.LikeService](injector)
	_ = do.MustInvoke[*service.CommentService](injector)
	_ = do.MustInvoke[*service.ThumbnailService](injector)
}
