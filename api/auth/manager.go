package auth

import (
	"restoran_server/api/middleware"
	"restoran_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(logger *gecho.Logger, authService *services.AuthService, mw *middleware.Middleware) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		mw:          mw,
	}
}

func (ar *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", ar.HandleRegister)
		r.Post("/login", ar.HandleLogin)
		r.Post("/refresh", ar.HandleRefresh)
		r.Post("/reset-password", ar.HandleResetPassword)
		r.Post("/reset-password/confirm", ar.HandleResetPasswordConfirm)

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.UserAuthMiddleware)
			r.Post("/logout", ar.HandleLogout)
			r.Get("/profile", ar.HandleGetProfile)
			r.Put("/profile", ar.HandleUpdateProfile)
		})
	})
}
