package auth

import (
	"net/http"
	"restoran_server/api/middleware"
	"restoran_server/handling"
	"restoran_server/lib"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		handling.HandleError(lib.ErrInvalidToken, "Unauthorized", ar.logger, w)
		return
	}

	if err := ar.authService.Logout(r.Context(), claims); err != nil {
		handling.HandleError(err, "Failed to logout", ar.logger, w)
		return
	}

	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.RefreshCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
