// Package oauthsync signs a user in with Google on a loopback redirect and
// turns the verified ID token into the identity the backend's oauth-login
// endpoint expects.
package oauthsync

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/model"
	"golang.org/x/oauth2"
)

const GoogleIssuer = "https://accounts.google.com"

var defaultScopes = []string{oidc.ScopeOpenID, "email", "profile"}

// Flow is the state of one sign-in attempt.
type Flow struct {
	State        string
	Nonce        string
	CodeVerifier string
}

func NewFlow() Flow {
	return Flow{
		State:        uuid.NewString(),
		Nonce:        uuid.NewString(),
		CodeVerifier: oauth2.GenerateVerifier(),
	}
}

type Google struct {
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogle discovers Google's OIDC configuration.
func NewGoogle(ctx context.Context, clientID, clientSecret string) (*Google, error) {
	if clientID == "" {
		return nil, errors.Wrapf(errors.ErrNotConfigured, "google client id")
	}
	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discovering %s: %w", GoogleIssuer, err)
	}
	cfg := oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       defaultScopes,
	}
	return NewWithVerifier(cfg, provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

// NewWithVerifier builds a Google from explicit endpoints, e.g. a test issuer.
func NewWithVerifier(cfg oauth2.Config, verifier *oidc.IDTokenVerifier) *Google {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = defaultScopes
	}
	return &Google{config: cfg, verifier: verifier}
}

func (g *Google) withRedirect(redirectURL string) *Google {
	c := *g
	c.config.RedirectURL = redirectURL
	return &c
}

// AuthCodeURL is the consent page for flow, with a S256 code challenge.
func (g *Google) AuthCodeURL(flow Flow) string {
	return g.config.AuthCodeURL(flow.State,
		oauth2.S256ChallengeOption(flow.CodeVerifier),
		oidc.Nonce(flow.Nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange redeems code and returns the identity from the verified ID token.
func (g *Google) Exchange(ctx context.Context, flow Flow, code string) (model.OAuthIdentity, error) {
	tok, err := g.config.Exchange(ctx, code, oauth2.VerifierOption(flow.CodeVerifier))
	if err != nil {
		return model.OAuthIdentity{}, fmt.Errorf("token exchange: %w", err)
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return model.OAuthIdentity{}, errors.ErrNoIDToken
	}
	return g.IdentityFromIDToken(ctx, rawIDToken, flow.Nonce)
}

// IdentityFromIDToken verifies rawIDToken and checks its nonce.
func (g *Google) IdentityFromIDToken(ctx context.Context, rawIDToken, nonce string) (model.OAuthIdentity, error) {
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return model.OAuthIdentity{}, fmt.Errorf("id token verification: %w", err)
	}

	var claims struct {
		Nonce         string `json:"nonce"`
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return model.OAuthIdentity{}, fmt.Errorf("id token claims: %w", err)
	}
	if claims.Nonce != nonce {
		return model.OAuthIdentity{}, errors.ErrInvalidNonce
	}
	if claims.Email == "" || (claims.EmailVerified != nil && !*claims.EmailVerified) {
		return model.OAuthIdentity{}, fmt.Errorf("id token has no verified email")
	}
	return model.OAuthIdentity{
		Email:          claims.Email,
		GoogleID:       idToken.Subject,
		DisplayName:    claims.Name,
		ProfilePicture: claims.Picture,
	}, nil
}
