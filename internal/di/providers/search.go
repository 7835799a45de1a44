package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/hagigaapp/hagiga-server/internal/config"
	"github.com/hagigaapp/hagiga-server/internal/logger"
	"github.com/hagigaapp/hagiga-server/internal/search"
	"github.com/hagigaapp/hagiga-server/internal/service"
)

// GuestIndexHandle wraps the guest search index with shutdown capability.
type GuestIndexHandle struct {
	*search.GuestIndex
}

// Shutdown implements do.Shutdownable.
func (h *GuestIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideGuestIndex provides the Bleve guest search index.
func ProvideGuestIndex(i do.Injector) (*GuestIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewGuestIndex(search.Options{
		DataPath: cfg.Database.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Guest search index initialized", "documents", docCount)

	return &GuestIndexHandle{GuestIndex: index}, nil
}

// ProvideSearchService provides the guest search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*GuestIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	eventService := do.MustInvoke[*service.EventService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(storeHandle.Store, eventService, indexHandle.GuestIndex, log.Logger), nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index from the store.
// Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	indexHandle := do.MustInvoke[*GuestIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	go func() {
		if err := searchService.ReindexAll(context.Background()); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		}
	}()
}
