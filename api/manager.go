package api

import (
	"restoran_server/api/auth"
	"restoran_server/api/bookings"
	"restoran_server/api/contact"
	"restoran_server/api/debug"
	"restoran_server/api/health"
	"restoran_server/api/menu"
	"restoran_server/api/middleware"
	"restoran_server/api/orders"
	"restoran_server/api/tables"
	"restoran_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	bookingRoutes *bookings.BookingRoutesManager
	tableRoutes   *tables.TableRoutesManager
	menuRoutes    *menu.MenuRoutesManager
	contactRoutes *contact.ContactRoutesManager
	orderRoutes   *orders.OrderRoutesManager
	authRoutes    *auth.AuthRoutesManager
	healthRoutes  *health.HealthRoutesManager
	debugRoutes   *debug.DebugRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		bookingRoutes: bookings.NewBookingRoutesManager(logger, sm.BookingService),
		tableRoutes:   tables.NewTableRoutesManager(logger, sm.TableService, sm.AvailabilityService),
		menuRoutes:    menu.NewMenuRoutesManager(logger, sm.MenuService),
		contactRoutes: contact.NewContactRoutesManager(logger, sm.ContactService),
		orderRoutes:   orders.NewOrderRoutesManager(logger, sm.OrderService, mw),
		authRoutes:    auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService),
		debugRoutes:   debug.NewDebugRoutesManager(sm.CacheService, sm.Notifier),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.bookingRoutes.RegisterRoutes(r)
	rm.tableRoutes.RegisterRoutes(r)
	rm.menuRoutes.RegisterRoutes(r)
	rm.contactRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}

func (rm *routerManager) RegisterMetricsRoute(r chi.Router) {
	rm.healthRoutes.RegisterMetricsRoute(r)
}
