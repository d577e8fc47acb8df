package auth

import (
	"net/http"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		ar.logger.Debug("Failed to extract and validate request body", gecho.Field("error", err))
		handling.HandleError(err, "Invalid registration request", ar.logger, w)
		return
	}

	result, err := ar.authService.Register(r.Context(), body)
	if err != nil {
		if lib.IsUniqueViolation(err) {
			gecho.Conflict(w, gecho.WithMessage("An account with this email already exists"), gecho.Send())
			return
		}
		handling.HandleError(err, "Unable to complete registration. Please try again", ar.logger, w)
		return
	}

	ar.setSessionCookies(result, w)

	gecho.Created(w,
		gecho.WithMessage("Account created successfully"),
		gecho.WithData(result),
		gecho.Send(),
	)
}
