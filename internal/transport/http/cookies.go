package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
)

type echoCookieJar struct {
	c echo.Context
}

// NewCookieJar reads request cookies and writes Set-Cookie headers on the
// response.
func NewCookieJar(c echo.Context) service.CookieJar {
	return &echoCookieJar{c: c}
}

func (j *echoCookieJar) Read(name string) (string, bool) {
	cookie, err := j.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (j *echoCookieJar) Write(name, value string, opts service.CookieOptions) {
	j.c.SetCookie(newCookie(name, value, opts))
}

func (j *echoCookieJar) Clear(name string, opts service.CookieOptions) {
	opts.MaxAge = -1
	j.c.SetCookie(newCookie(name, "", opts))
}

type readOnlyCookieJar struct {
	r *http.Request
}

// NewReadOnlyCookieJar reads request cookies and silently drops writes, for
// rendering paths that must not modify the response headers.
func NewReadOnlyCookieJar(r *http.Request) service.CookieJar {
	return readOnlyCookieJar{r: r}
}

func (j readOnlyCookieJar) Read(name string) (string, bool) {
	cookie, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (readOnlyCookieJar) Write(string, string, service.CookieOptions) {}

func (readOnlyCookieJar) Clear(string, service.CookieOptions) {}

func newCookie(name, value string, opts service.CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		Secure:   opts.Secure,
		HttpOnly: opts.HTTPOnly,
		SameSite: opts.SameSite,
	}
}
