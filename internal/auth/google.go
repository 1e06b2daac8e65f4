package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/mmynk/subshare/internal/models"
)

// GoogleIssuerURL is Google's OpenID Connect issuer.
const GoogleIssuerURL = "https://accounts.google.com"

var (
	ErrFederatedLogin = errors.New("failed to authorize with identity provider")
	ErrNoEmail        = errors.New("identity provider account has no email associated")
)

// GoogleConfig holds the OAuth client registration for Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// IssuerURL overrides the discovery issuer; defaults to GoogleIssuerURL.
	IssuerURL string
}

// GoogleProvider implements IdentityProvider with Google's OpenID Connect
// endpoints, discovered from the issuer's well-known configuration.
type GoogleProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

var _ IdentityProvider = (*GoogleProvider)(nil)

// NewGoogleProvider runs OIDC discovery against the issuer and returns a
// provider ready to build consent URLs and verify ID tokens.
func NewGoogleProvider(ctx context.Context, cfg GoogleConfig) (*GoogleProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google client id and secret are required")
	}
	issuer := cfg.IssuerURL
	if issuer == "" {
		issuer = GoogleIssuerURL
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider discovery: %w", err)
	}

	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// Name returns the social tag stored on users created through Google.
func (p *GoogleProvider) Name() string {
	return models.SocialGoogle
}

// AuthCodeURL returns the Google consent page URL.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the authorization code for tokens and verifies the ID token.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*FederatedIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange: %v", ErrFederatedLogin, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: token response has no id_token", ErrFederatedLogin)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: id token verification: %v", ErrFederatedLogin, err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %v", ErrFederatedLogin, err)
	}

	return &FederatedIdentity{
		Provider:      p.Name(),
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}
