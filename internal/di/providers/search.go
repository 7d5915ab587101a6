package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// SearchIndexHandle wraps the note index with shutdown capability.
type SearchIndexHandle struct {
	*search.NoteIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text note index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewNoteIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{NoteIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.NoteIndex, storeHandle.Store, log.Logger), nil
}
