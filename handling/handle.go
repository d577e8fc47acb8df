package handling

import (
	"errors"
	"net/http"
	"restoran_server/config"
	"restoran_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleError writes the response for err. Caller-fixable errors are answered
// with their own text; anything else is logged and reported as msg.
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	var ve *lib.ValidationError
	switch {
	case errors.As(err, &ve):
		gecho.BadRequest(w,
			gecho.WithMessage(ve.Error()),
			gecho.WithData(ve),
			gecho.Send(),
		)
		return
	case lib.IsNotFound(err):
		gecho.NotFound(w, gecho.WithMessage("Resource not found"), gecho.Send())
		return
	case lib.IsBusinessRule(err):
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	case lib.IsUniqueViolation(err):
		gecho.Conflict(w, gecho.WithMessage("Resource already exists"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid email or password"), gecho.Send())
		return
	case errors.Is(err, lib.ErrInvalidToken), errors.Is(err, lib.ErrExpiredToken):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or expired token"), gecho.Send())
		return
	case errors.Is(err, lib.ErrForbidden):
		gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
		return
	}

	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	if config.IsProduction() {
		gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
		return
	}
	gecho.InternalServerError(w,
		gecho.WithMessage(msg),
		gecho.WithData(map[string]string{"error": err.Error()}),
		gecho.Send(),
	)
}
