package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Voyara_APP_BackEnd/internal/completion"
	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/metrics"
	"github.com/njprem/Voyara_APP_BackEnd/internal/prompt"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

const generateRoute = "/api/generate"

type GenerateHandler struct {
	streamer completion.Streamer
	log      zerolog.Logger
}

func RegisterGenerate(e *echo.Echo, streamer completion.Streamer, log zerolog.Logger) {
	handler := &GenerateHandler{streamer: streamer, log: log}
	e.POST(generateRoute, handler.generate)
}

// generate relays completion fragments to the client as they arrive.
// Headers go out with the first fragment so an upstream failure before any
// output can still be reported as a JSON error.
func (h *GenerateHandler) generate(c echo.Context) error {
	var req domain.PlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return writeError(c, h.log, err)
	}

	res := c.Response()
	started := false
	startBody := func() {
		res.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
		res.Header().Set("Cache-Control", "no-cache")
		res.Header().Set("X-Accel-Buffering", "no")
		res.WriteHeader(http.StatusOK)
		started = true
	}

	err := h.streamer.Stream(c.Request().Context(), prompt.Build(req), func(fragment string) error {
		if !started {
			startBody()
		}
		if _, err := res.Write([]byte(fragment)); err != nil {
			return err
		}
		res.Flush()
		return nil
	})

	switch {
	case err == nil:
		metrics.ObserveStream(metrics.OutcomeOK)
		if !started {
			startBody()
		}
		return nil
	case started:
		// Headers are gone; the truncated body fails the client's single parse.
		metrics.ObserveStream(metrics.OutcomeFailedMidStream)
		h.log.Warn().Err(err).Str("destination", req.Destination).Msg("completion stream ended early")
		return nil
	default:
		metrics.ObserveStream(metrics.OutcomeFailedBeforeOutput)
		h.log.Error().Err(err).Str("destination", req.Destination).Msg("completion stream failed")
		return c.JSON(http.StatusInternalServerError, util.Error(generateErrorMessage(err)))
	}
}

func generateErrorMessage(err error) string {
	message := completion.ErrGenerate.Message
	var de *domain.Error
	if errors.As(err, &de) && de.Err != nil {
		return message + " " + de.Err.Error()
	}
	if err != nil {
		return message + " " + err.Error()
	}
	return message
}
