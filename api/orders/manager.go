package orders

import (
	"restoran_server/api/middleware"
	"restoran_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService *services.OrderService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(logger *gecho.Logger, orderService *services.OrderService, mw *middleware.Middleware) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		// Guests may order; a valid token links the order to the account
		r.With(orm.mw.OptionalAuthMiddleware).Post("/", orm.CreateOrder)

		r.Group(func(r chi.Router) {
			r.Use(orm.mw.UserAuthMiddleware)
			r.Get("/", orm.ListOrders)
			r.Get("/{id}", orm.GetOrder)
			r.Patch("/{id}/status", orm.UpdateStatus)
			r.Delete("/{id}", orm.CancelOrder)
		})
	})
}
