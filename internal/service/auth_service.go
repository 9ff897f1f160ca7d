package service

import (
	"context"
	"crypto/subtle"
	"sort"
	"strings"
	"time"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

const (
	StateCookieName = "voyara-oauth-state"
	stateTTL        = 10 * time.Minute
)

var (
	ErrUnknownProvider = domain.NewError(domain.KindValidation, "Unsupported sign-in provider.", nil)
	ErrOAuthState      = domain.NewError(domain.KindUnauthenticated, "Sign-in expired or could not be verified. Please try again.", nil)
	ErrOAuthCode       = domain.NewError(domain.KindValidation, "Missing authorization code.", nil)
	ErrOAuthExchange   = domain.NewError(domain.KindUpstream, "Could not complete sign-in with the provider.", nil)
)

// AuthService runs the OAuth code flow and hands the result to the
// SessionManager.
type AuthService struct {
	users     ports.UserRepository
	profiles  ports.ProfileRepository
	sessions  *SessionManager
	providers map[string]OAuthProvider
}

func NewAuthService(users ports.UserRepository, profiles ports.ProfileRepository, sessions *SessionManager, providers ...OAuthProvider) *AuthService {
	byName := make(map[string]OAuthProvider, len(providers))
	for _, p := range providers {
		if p != nil {
			byName[p.Name()] = p
		}
	}
	return &AuthService{users: users, profiles: profiles, sessions: sessions, providers: byName}
}

// Providers lists configured provider names in a stable order.
func (s *AuthService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoginURL stores a fresh state in jar and returns the provider's consent URL.
func (s *AuthService) LoginURL(jar CookieJar, provider string) (string, error) {
	p, ok := s.providers[strings.ToLower(strings.TrimSpace(provider))]
	if !ok {
		return "", ErrUnknownProvider
	}
	nonce, err := util.NewOpaqueToken()
	if err != nil {
		return "", domain.NewError(domain.KindStore, "Failed to start sign-in.", err)
	}
	state := p.Name() + "." + nonce
	jar.Write(StateCookieName, state, s.sessions.ShortLivedCookie(stateTTL))
	return p.AuthCodeURL(state), nil
}

// CompleteLogin checks state, exchanges code, upserts the user and their
// profile, and establishes a session.
func (s *AuthService) CompleteLogin(ctx context.Context, jar CookieJar, code, state string) (*Identity, error) {
	expected, _ := jar.Read(StateCookieName)
	jar.Clear(StateCookieName, s.sessions.ShortLivedCookie(-time.Second))

	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		return nil, ErrOAuthState
	}
	if strings.TrimSpace(code) == "" {
		return nil, ErrOAuthCode
	}
	name, _, _ := strings.Cut(state, ".")
	p, ok := s.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}

	ext, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, ErrOAuthExchange.Wrap(err)
	}
	user, err := s.users.UpsertByProvider(ctx, ext.Provider, ext.Subject, ext.Email)
	if err != nil {
		return nil, storeError("Failed to sign in.", err)
	}
	if err := s.profiles.EnsureExists(ctx, user.ID, optionalString(ext.Name), optionalString(ext.AvatarURL)); err != nil {
		return nil, storeError("Failed to sign in.", err)
	}
	return s.sessions.Establish(ctx, jar, user)
}

func (s *AuthService) SignOut(ctx context.Context, jar CookieJar) error {
	return s.sessions.End(ctx, jar)
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
