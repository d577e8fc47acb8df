package services

import (
	"context"
	"database/sql"
	"restoran_server/repository"
	"restoran_server/structs"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart = time.Now()

type ServerHealthStatus struct {
	Uptime       float64   `json:"uptime"`       // in seconds
	CurrentTime  time.Time `json:"current_time"` // server current time
	ServiceAlive bool      `json:"service_alive"`
	Goroutines   int       `json:"goroutines"`
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type DatabaseHealthStatus struct {
	Driver         string     `json:"driver"`
	Connected      bool       `json:"connected"`
	LastChecked    time.Time  `json:"last_checked"`
	ResponseTimeMs int64      `json:"response_time_ms"`
	Pool           *PoolStats `json:"pool,omitempty"`
}

// PoolStats mirrors the sql.DB pool counters of a SQL-backed store.
type PoolStats struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
	WaitDurationMs  int64 `json:"wait_duration_ms"`
}

// poolReporter is implemented by stores that own a connection pool.
type poolReporter interface {
	PoolStats() sql.DBStats
}

// ApiHealthStatus is the payload of GET /api/health.
type ApiHealthStatus struct {
	Status      string               `json:"status"`
	Timestamp   time.Time            `json:"timestamp"`
	Environment string               `json:"environment"`
	Database    DatabaseHealthStatus `json:"database"`
	Cache       string               `json:"cache"`
	EmailConfig string               `json:"email_config"`
}

type HealthService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	store  repository.Store
	cache  *CacheService
}

func NewHealthService(logger *gecho.Logger, cfg *structs.Config, store repository.Store, cache *CacheService) *HealthService {
	return &HealthService{
		logger: logger,
		cfg:    cfg,
		store:  store,
		cache:  cache,
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() ServerHealthStatus {
	return ServerHealthStatus{
		Uptime:       time.Since(uptimeStart).Seconds(),
		CurrentTime:  time.Now(),
		ServiceAlive: true,
		Goroutines:   runtime.NumGoroutine(),
		RamStats:     getRamStats(),
	}
}

func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (DatabaseHealthStatus, error) {
	start := time.Now()
	err := hs.store.Ping(ctx)

	dbStatus := DatabaseHealthStatus{
		Driver:         hs.store.Driver(),
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}

	if pr, ok := hs.store.(poolReporter); ok {
		stats := pr.PoolStats()
		dbStatus.Pool = &PoolStats{
			OpenConnections: stats.OpenConnections,
			InUse:           stats.InUse,
			Idle:            stats.Idle,
			WaitCount:       stats.WaitCount,
			WaitDurationMs:  stats.WaitDuration.Milliseconds(),
		}
	}

	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}
	return dbStatus, err
}

// GetApiHealthStatus reports "degraded" when the store is unreachable.
func (hs *HealthService) GetApiHealthStatus(ctx context.Context) ApiHealthStatus {
	dbStatus, err := hs.GetDatabaseHealthStatus(ctx)

	status := "ok"
	if err != nil {
		status = "degraded"
	}

	cache := "disabled"
	if hs.cache.Enabled() {
		cache = "connected"
		if err := hs.cache.Ping(ctx); err != nil {
			hs.logger.Warn("Cache health check failed", gecho.Field("error", err))
			cache = "unreachable"
		}
	}

	emailConfig := "Missing"
	if hs.cfg.Email.ApiKey != "" {
		emailConfig = "Configured"
	}

	return ApiHealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		Environment: hs.cfg.Server.Environment,
		Database:    dbStatus,
		Cache:       cache,
		EmailConfig: emailConfig,
	}
}
