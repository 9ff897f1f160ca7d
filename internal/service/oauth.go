package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
)

const githubAPIBaseURL = "https://api.github.com"

// OAuthProvider is one external sign-in option.
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error)
}

type OAuthClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type GoogleProvider struct {
	config   *oauth2.Config
	validate func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

var _ OAuthProvider = (*GoogleProvider)(nil)

func NewGoogleProvider(cfg OAuthClientConfig) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		validate: idtoken.Validate,
	}
}

func (p *GoogleProvider) Name() string { return domain.ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: exchange code: %w", err)
	}
	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, errors.New("google: token response has no id_token")
	}
	payload, err := p.validate(ctx, rawIDToken, p.config.ClientID)
	if err != nil {
		return nil, fmt.Errorf("google: validate id_token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	return &domain.ExternalIdentity{
		Provider:  domain.ProviderGoogle,
		Subject:   payload.Subject,
		Email:     email,
		Name:      name,
		AvatarURL: picture,
	}, nil
}

type GitHubProvider struct {
	config *oauth2.Config
	api    *resty.Client
}

var _ OAuthProvider = (*GitHubProvider)(nil)

func NewGitHubProvider(cfg OAuthClientConfig) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		api: resty.New().
			SetBaseURL(githubAPIBaseURL).
			SetHeader("Accept", "application/vnd.github+json").
			SetTimeout(10 * time.Second),
	}
}

func (p *GitHubProvider) Name() string { return domain.ProviderGitHub }

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*domain.ExternalIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchange code: %w", err)
	}

	var user githubUser
	resp, err := p.api.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&user).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("github: fetch user: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("github: fetch user: status %d: %s", resp.StatusCode(), resp.String())
	}
	if user.ID == 0 {
		return nil, errors.New("github: user response has no id")
	}

	email := user.Email
	if email == "" {
		email = p.primaryEmail(ctx, token.AccessToken)
	}
	name := user.Name
	if name == "" {
		name = user.Login
	}
	return &domain.ExternalIdentity{
		Provider:  domain.ProviderGitHub,
		Subject:   strconv.FormatInt(user.ID, 10),
		Email:     email,
		Name:      name,
		AvatarURL: user.AvatarURL,
	}, nil
}

// primaryEmail is best effort; a private address just leaves the email blank.
func (p *GitHubProvider) primaryEmail(ctx context.Context, accessToken string) string {
	var emails []githubEmail
	resp, err := p.api.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&emails).
		Get("/user/emails")
	if err != nil || resp.IsError() {
		return ""
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	return ""
}
