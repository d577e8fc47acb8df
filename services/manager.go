package services

import (
	"context"
	"restoran_server/repository"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AvailabilityService *AvailabilityService
	BookingService      *BookingService
	TableService        *TableService
	MenuService         *MenuService
	ContactService      *ContactService
	OrderService        *OrderService
	AuthService         *AuthService
	CacheService        *CacheService
	HealthService       *HealthService
	Notifier            *NotificationService
}

// NewServiceManager wires every service from its collaborators. The caller owns
// the store; Shutdown only stops what the manager started.
func NewServiceManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	store repository.Store,
	mailer Mailer,
	publisher EventPublisher,
	cache *CacheService,
) *ServiceManager {
	notifier := NewNotificationService(logger, cfg.Notify, mailer, publisher)
	availability := NewAvailabilityService(logger, store, store)

	return &ServiceManager{
		AvailabilityService: availability,
		BookingService:      NewBookingService(logger, cfg, store, store, availability, notifier),
		TableService:        NewTableService(logger, store, store),
		MenuService:         NewMenuService(logger, store),
		ContactService:      NewContactService(logger, cfg, store, notifier),
		OrderService:        NewOrderService(logger, store, store, notifier),
		AuthService:         NewAuthService(logger, cfg, store, cache, notifier),
		CacheService:        cache,
		HealthService:       NewHealthService(logger, cfg, store, cache),
		Notifier:            notifier,
	}
}

// Shutdown drains the notification queue and closes the cache client.
func (sm *ServiceManager) Shutdown(ctx context.Context) error {
	err := sm.Notifier.Shutdown(ctx)
	if cerr := sm.CacheService.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
