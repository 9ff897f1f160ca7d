package service

import "net/http"

// CookieOptions mirrors the Set-Cookie attributes the session layer controls.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// CookieJar is the request-scoped cookie surface handed to the session
// layer. Read-only implementations accept Write and Clear and drop them.
type CookieJar interface {
	Read(name string) (string, bool)
	Write(name, value string, opts CookieOptions)
	Clear(name string, opts CookieOptions)
}
