package debug

import (
	"restoran_server/config"
	"restoran_server/services"

	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	cacheService *services.CacheService
	notifier     *services.NotificationService
}

func NewDebugRoutesManager(cacheService *services.CacheService, notifier *services.NotificationService) *DebugRoutesManager {
	return &DebugRoutesManager{
		cacheService: cacheService,
		notifier:     notifier,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if !config.IsProduction() {
		r.Route("/debug", func(r chi.Router) {
			r.Get("/cache", drm.CacheStats)
			r.Get("/notifications", drm.NotificationStats)
		})
	}
}
