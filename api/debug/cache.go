package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) CacheStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.cacheService.GetConnectionStats()),
		gecho.Send(),
	)
}

func (drm *DebugRoutesManager) NotificationStats(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(drm.notifier.Stats()),
		gecho.Send(),
	)
}
