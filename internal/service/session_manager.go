package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

const (
	AccessCookieName  = "voyara-access-token"
	RefreshCookieName = "voyara-refresh-token"
)

var ErrNoSession = domain.NewError(domain.KindUnauthenticated, "You are not signed in.", nil)

// Identity is the signed-in user as seen by handlers.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	SessionID int64
}

type SessionManagerConfig struct {
	SessionTTL   time.Duration
	SecureCookie bool
}

// SessionManager turns cookies into an Identity and back. It holds no
// per-request state; the jar is passed on every call.
type SessionManager struct {
	sessions   ports.SessionRepository
	users      ports.UserRepository
	tokens     *util.JWTManager
	sessionTTL time.Duration
	secure     bool
	now        func() time.Time
}

func NewSessionManager(sessions ports.SessionRepository, users ports.UserRepository, tokens *util.JWTManager, cfg SessionManagerConfig) *SessionManager {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &SessionManager{
		sessions:   sessions,
		users:      users,
		tokens:     tokens,
		sessionTTL: ttl,
		secure:     cfg.SecureCookie,
		now:        time.Now,
	}
}

// Resolve returns the current identity. A valid access cookie is trusted
// as is; otherwise the refresh cookie is checked against the session table
// and a new access token is written through jar.
func (m *SessionManager) Resolve(ctx context.Context, jar CookieJar) (*Identity, error) {
	if raw, ok := jar.Read(AccessCookieName); ok && raw != "" {
		if claims, err := m.tokens.Parse(raw); err == nil {
			return &Identity{UserID: claims.UserID, Email: claims.Email, SessionID: claims.SessionID}, nil
		}
	}

	refresh, ok := jar.Read(RefreshCookieName)
	if !ok || refresh == "" {
		return nil, ErrNoSession
	}
	session, err := m.sessions.FindActiveSession(ctx, util.HashToken(refresh))
	if err != nil {
		if isNotFound(err) {
			m.clearCookies(jar)
			return nil, ErrNoSession
		}
		return nil, storeError("Failed to load session.", err)
	}
	user, err := m.users.FindByID(ctx, session.UserID)
	if err != nil {
		if isNotFound(err) {
			m.clearCookies(jar)
			return nil, ErrNoSession
		}
		return nil, storeError("Failed to load session.", err)
	}

	if err := m.writeAccessToken(jar, user, session.ID); err != nil {
		return nil, err
	}
	return &Identity{UserID: user.ID, Email: user.Email, SessionID: session.ID}, nil
}

// Establish opens a session for user and writes both cookies.
func (m *SessionManager) Establish(ctx context.Context, jar CookieJar, user *domain.User) (*Identity, error) {
	refresh, err := util.NewOpaqueToken()
	if err != nil {
		return nil, domain.NewError(domain.KindStore, "Failed to start session.", err)
	}
	expiresAt := m.now().Add(m.sessionTTL)
	session, err := m.sessions.CreateSession(ctx, user.ID, util.HashToken(refresh), expiresAt)
	if err != nil {
		return nil, storeError("Failed to start session.", err)
	}

	jar.Write(RefreshCookieName, refresh, m.cookieOptions(int(m.sessionTTL.Seconds())))
	if err := m.writeAccessToken(jar, user, session.ID); err != nil {
		return nil, err
	}
	return &Identity{UserID: user.ID, Email: user.Email, SessionID: session.ID}, nil
}

// End deactivates the refresh session, if any, and clears both cookies.
func (m *SessionManager) End(ctx context.Context, jar CookieJar) error {
	defer m.clearCookies(jar)
	refresh, ok := jar.Read(RefreshCookieName)
	if !ok || refresh == "" {
		return nil
	}
	if err := m.sessions.DeactivateSession(ctx, util.HashToken(refresh)); err != nil {
		return storeError("Failed to sign out.", err)
	}
	return nil
}

func (m *SessionManager) writeAccessToken(jar CookieJar, user *domain.User, sessionID int64) error {
	token, _, err := m.tokens.Generate(user.ID, user.Email, sessionID)
	if err != nil {
		return domain.NewError(domain.KindStore, "Failed to issue access token.", err)
	}
	jar.Write(AccessCookieName, token, m.cookieOptions(int(m.tokens.TTL().Seconds())))
	return nil
}

func (m *SessionManager) clearCookies(jar CookieJar) {
	opts := m.cookieOptions(-1)
	jar.Clear(AccessCookieName, opts)
	jar.Clear(RefreshCookieName, opts)
}

func (m *SessionManager) cookieOptions(maxAge int) CookieOptions {
	return CookieOptions{
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ShortLivedCookie returns attributes for transient cookies such as OAuth state.
func (m *SessionManager) ShortLivedCookie(ttl time.Duration) CookieOptions {
	return m.cookieOptions(int(ttl.Seconds()))
}
