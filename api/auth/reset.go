package auth

import (
	"net/http"
	"restoran_server/handling"
	"restoran_server/lib"
	"restoran_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleResetPassword answers the same way whether or not the account exists.
func (ar *AuthRoutesManager) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ResetPasswordRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid reset request", ar.logger, w)
		return
	}

	if err := ar.authService.RequestPasswordReset(r.Context(), body.Email); err != nil {
		ar.logger.Error("Password reset request failed", gecho.Field("error", err))
	}

	gecho.Success(w,
		gecho.WithMessage("If an account exists for this email, a reset link has been sent"),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) HandleResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ResetPasswordConfirmRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid reset confirmation", ar.logger, w)
		return
	}

	if err := ar.authService.ConfirmPasswordReset(r.Context(), body); err != nil {
		handling.HandleError(err, "Unable to reset password", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Password updated successfully"),
		gecho.Send(),
	)
}
