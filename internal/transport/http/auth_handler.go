package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	siteURL string
	log     zerolog.Logger
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, siteURL string, log zerolog.Logger) {
	handler := &AuthHandler{auth: auth, siteURL: strings.TrimRight(siteURL, "/"), log: log}

	group := e.Group("/auth")
	group.GET("/login/:provider", handler.login)
	group.GET("/callback", handler.callback)
	group.POST("/signout", handler.signOut)
}

func (h *AuthHandler) login(c echo.Context) error {
	target, err := h.auth.LoginURL(NewCookieJar(c), strings.ToLower(c.Param("provider")))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Redirect(http.StatusFound, target)
}

// callback finishes the code exchange. Any failure lands on the login page
// with an error flag rather than a JSON body.
func (h *AuthHandler) callback(c echo.Context) error {
	if providerErr := c.QueryParam("error"); providerErr != "" {
		h.log.Info().Str("error", providerErr).Msg("provider declined sign-in")
		return c.Redirect(http.StatusSeeOther, h.siteURL+"/login?error=1")
	}

	identity, err := h.auth.CompleteLogin(c.Request().Context(), NewCookieJar(c), c.QueryParam("code"), c.QueryParam("state"))
	if err != nil {
		h.log.Warn().Err(err).Msg("complete sign-in")
		return c.Redirect(http.StatusSeeOther, h.siteURL+"/login?error=1")
	}
	h.log.Info().Str("user_id", identity.UserID.String()).Msg("signed in")
	return c.Redirect(http.StatusSeeOther, h.siteURL+"/")
}

func (h *AuthHandler) signOut(c echo.Context) error {
	if err := h.auth.SignOut(c.Request().Context(), NewCookieJar(c)); err != nil {
		h.log.Error().Err(err).Msg("sign out")
	}
	return c.Redirect(http.StatusSeeOther, h.siteURL+"/")
}
