package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

func statusFor(err error) int {
	kind, ok := domain.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError is the one place errors become HTTP responses. Server-side
// failures are logged with their cause; the client only sees the message.
func writeError(c echo.Context, log zerolog.Logger, err error) error {
	status := statusFor(err)
	message := domain.MessageOf(err, "Something went wrong. Please try again.")
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Msg(message)
	}
	return c.JSON(status, util.Error(message))
}
