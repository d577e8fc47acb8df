package api

import (
	"net/http"
	"restoran_server/api/middleware"
	"restoran_server/config"
	"restoran_server/services"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

func App(cfg *structs.Config, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// create loggers
	mwLogger := config.NewLogger(false)
	standardLogger := config.NewLogger(true)

	mw := middleware.NewMiddleware(cfg, mwLogger, sm.AuthService, sm.CacheService)

	// Core infra
	r.Use(chiware.RequestID)
	r.Use(chiware.Recoverer)

	// Limits & security
	r.Use(mw.BodyLimit(1 << 20))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.SetupLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth)
	r.Use(mw.SetupCORS().Handler)

	routes := NewRouterManager(standardLogger, sm, mw)
	routes.RegisterMetricsRoute(r)

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RateLimitMiddleware())
		routes.RegisterRoutes(r)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.WithMessage("Route not found"),
			gecho.Send(),
		)
	})

	return r
}
