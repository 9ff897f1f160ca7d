package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

const contextIdentityKey = "voyara.identity"

// LoadSession resolves the session for every request in the group and
// refreshes the access cookie when needed. Anonymous requests pass through.
func LoadSession(sessions *service.SessionManager, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := sessions.Resolve(c.Request().Context(), NewCookieJar(c))
			switch {
			case err == nil:
				c.Set(contextIdentityKey, identity)
			case errors.Is(err, domain.ErrUnauthenticated):
			default:
				log.Warn().Err(err).Msg("resolve session")
			}
			return next(c)
		}
	}
}

// RequireSession rejects anonymous API requests with 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentIdentity(c); !ok {
				return c.JSON(http.StatusUnauthorized, util.Error(service.ErrNoSession.Message))
			}
			return next(c)
		}
	}
}

func CurrentIdentity(c echo.Context) (*service.Identity, bool) {
	identity, ok := c.Get(contextIdentityKey).(*service.Identity)
	return identity, ok && identity != nil
}

// ownerID is the nil-able owner handed to services.
func ownerID(c echo.Context) *uuid.UUID {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return nil
	}
	id := identity.UserID
	return &id
}
