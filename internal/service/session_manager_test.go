package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

type sessionFixture struct {
	manager  *SessionManager
	sessions *fakeSessionRepo
	users    *fakeUserRepo
	user     *domain.User
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	users := newFakeUserRepo()
	user, _ := users.UpsertByProvider(context.Background(), domain.ProviderGoogle, "sub-1", "traveler@example.com")
	sessions := newFakeSessionRepo()
	manager := NewSessionManager(sessions, users, util.NewJWTManager("secret", time.Hour), SessionManagerConfig{SessionTTL: 24 * time.Hour, SecureCookie: true})
	return sessionFixture{manager: manager, sessions: sessions, users: users, user: user}
}

func TestSessionManagerEstablishWritesBothCookies(t *testing.T) {
	f := newSessionFixture(t)
	jar := newMemoryJar()

	identity, err := f.manager.Establish(context.Background(), jar, f.user)
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	if identity.UserID != f.user.ID || identity.Email != f.user.Email {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if _, ok := jar.Read(AccessCookieName); !ok {
		t.Fatalf("expected access cookie")
	}
	refresh, ok := jar.Read(RefreshCookieName)
	if !ok {
		t.Fatalf("expected refresh cookie")
	}
	if _, stored := f.sessions.sessions[refresh]; stored {
		t.Fatalf("refresh token must not be stored in clear")
	}
	if _, stored := f.sessions.sessions[util.HashToken(refresh)]; !stored {
		t.Fatalf("expected hashed refresh token to be stored")
	}

	opts := jar.opts[RefreshCookieName]
	if opts.Path != "/" || !opts.HTTPOnly || !opts.Secure || opts.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie options %+v", opts)
	}
	if opts.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Fatalf("unexpected refresh max age %d", opts.MaxAge)
	}
}

func TestSessionManagerResolveFromAccessToken(t *testing.T) {
	f := newSessionFixture(t)
	jar := newMemoryJar()
	if _, err := f.manager.Establish(context.Background(), jar, f.user); err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	delete(jar.values, RefreshCookieName)
	writes := jar.writes

	identity, err := f.manager.Resolve(context.Background(), jar)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.UserID != f.user.ID {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if jar.writes != writes {
		t.Fatalf("valid access token should not rewrite cookies")
	}
}

func TestSessionManagerResolveRefreshesAccessToken(t *testing.T) {
	f := newSessionFixture(t)
	jar := newMemoryJar()
	if _, err := f.manager.Establish(context.Background(), jar, f.user); err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	jar.values[AccessCookieName] = "expired-or-garbage"

	identity, err := f.manager.Resolve(context.Background(), jar)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.UserID != f.user.ID {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if jar.values[AccessCookieName] == "expired-or-garbage" {
		t.Fatalf("expected a fresh access token to be written")
	}
}

func TestSessionManagerResolveReadOnlyJarAbsorbsRefresh(t *testing.T) {
	f := newSessionFixture(t)
	writable := newMemoryJar()
	if _, err := f.manager.Establish(context.Background(), writable, f.user); err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}

	jar := newMemoryJar()
	jar.readOnly = true
	jar.values[RefreshCookieName] = writable.values[RefreshCookieName]

	identity, err := f.manager.Resolve(context.Background(), jar)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.UserID != f.user.ID {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if _, ok := jar.Read(AccessCookieName); ok || jar.writes != 0 {
		t.Fatalf("read-only jar must not record writes")
	}
}

func TestSessionManagerResolveWithoutCookies(t *testing.T) {
	f := newSessionFixture(t)
	_, err := f.manager.Resolve(context.Background(), newMemoryJar())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestSessionManagerEndDeactivatesAndClears(t *testing.T) {
	f := newSessionFixture(t)
	jar := newMemoryJar()
	if _, err := f.manager.Establish(context.Background(), jar, f.user); err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	refresh := jar.values[RefreshCookieName]

	if err := f.manager.End(context.Background(), jar); err != nil {
		t.Fatalf("End returned error: %v", err)
	}
	if _, ok := jar.Read(AccessCookieName); ok {
		t.Fatalf("expected access cookie cleared")
	}
	if _, ok := jar.Read(RefreshCookieName); ok {
		t.Fatalf("expected refresh cookie cleared")
	}
	if jar.opts[RefreshCookieName].MaxAge != -1 {
		t.Fatalf("expected Max-Age -1 on clear")
	}
	if f.sessions.sessions[util.HashToken(refresh)].IsActive {
		t.Fatalf("expected session deactivated")
	}

	// A stolen refresh cookie no longer resolves.
	jar.values[RefreshCookieName] = refresh
	if _, err := f.manager.Resolve(context.Background(), jar); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated after sign-out, got %v", err)
	}
}
