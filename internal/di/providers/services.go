package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// ProvideValidator provides the input validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideFanoutLimiter provides the token-bucket limiter pacing the
// fan-out scans.
func ProvideFanoutLimiter(i do.Injector) (*ratelimit.KeyedLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return ratelimit.New(cfg.Fanout.ScanRate, cfg.Fanout.ScanBurst), nil
}

// ProvideTagService provides the tag registry service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideRecentService provides the recently-read cache service.
func ProvideRecentService(i do.Injector) (*service.RecentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecentService(storeHandle.Store, log.Logger), nil
}

// ProvideNoteService provides the note lifecycle service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tags := do.MustInvoke[*service.TagService](i)
	recent := do.MustInvoke[*service.RecentService](i)
	searchSvc := do.MustInvoke[*service.SearchService](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, tags, recent, searchSvc, validate, log.Logger), nil
}

// ProvideLikeService provides the like service.
func ProvideLikeService(i do.Injector) (*service.LikeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLikeService(storeHandle.Store, log.Logger), nil
}

// ProvideCommentService provides the comment service.
func ProvideCommentService(i do.Injector) (*service.CommentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommentService(storeHandle.Store, validate, log.Logger), nil
}

// ProvideThumbnailService provides the thumbnail fan-out service.
func ProvideThumbnailService(i do.Injector) (*service.ThumbnailService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	limiter := do.MustInvoke[*ratelimit.KeyedLimiter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewThumbnailService(storeHandle.Store, limiter, log.Logger), nil
}
