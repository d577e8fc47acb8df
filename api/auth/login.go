package auth

import (
	"net/http"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/services"
	"restoran_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		ar.logger.Debug("Failed to extract login body", gecho.Field("error", err))
		handling.HandleError(err, "Invalid login request", ar.logger, w)
		return
	}

	result, err := ar.authService.Login(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to complete login. Please try again", ar.logger, w)
		return
	}

	ar.setSessionCookies(result, w)

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GetCookieValue(lib.RefreshCookieName, r)
	if err != nil {
		body, berr := lib.ExtractAndValidateBody[structs.RefreshTokenRequest](r)
		if berr != nil {
			handling.HandleError(lib.ErrInvalidToken, "Missing refresh token", ar.logger, w)
			return
		}
		token = body.RefreshToken
	}

	result, err := ar.authService.Refresh(r.Context(), token)
	if err != nil {
		handling.HandleError(err, "Unable to refresh session", ar.logger, w)
		return
	}

	ar.setSessionCookies(result, w)

	gecho.Success(w,
		gecho.WithMessage("Session refreshed"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) setSessionCookies(result *services.AuthResult, w http.ResponseWriter) {
	lib.SetCookie(lib.AccessCookieName, result.AccessToken, result.ExpiresAt, w)
	lib.SetCookie(lib.RefreshCookieName, result.RefreshToken, time.Now().Add(ar.authService.RefreshTokenExpiry()), w)
}
