package health

import (
	"restoran_server/services"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthRoutesManager struct {
	healthService *services.HealthService
}

func NewHealthRoutesManager(healthService *services.HealthService) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health", hrm.GetApiHealth)
	r.Get("/health/server", hrm.GetServerHealth)
	r.Get("/health/database", hrm.GetDatabaseHealth)
}

// RegisterMetricsRoute mounts the prometheus scrape endpoint.
func (hrm *HealthRoutesManager) RegisterMetricsRoute(r chi.Router) {
	RegisterMetrics()
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}
