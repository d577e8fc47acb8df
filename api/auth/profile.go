package auth

import (
	"net/http"
	"restoran_server/api/middleware"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		handling.HandleError(lib.ErrInvalidToken, "Unauthorized", ar.logger, w)
		return
	}

	profile, err := ar.authService.GetProfile(r.Context(), claims.Sub)
	if err != nil {
		handling.HandleError(err, "Failed to fetch profile", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(profile),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		handling.HandleError(lib.ErrInvalidToken, "Unauthorized", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ProfileRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid profile update", ar.logger, w)
		return
	}

	profile, err := ar.authService.UpdateProfile(r.Context(), claims.Sub, body)
	if err != nil {
		handling.HandleError(err, "Failed to update profile", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Profile updated successfully"),
		gecho.WithData(profile),
		gecho.Send(),
	)
}
