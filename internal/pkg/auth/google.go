package auth

import (
	"context"
	"errors"
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// ErrMissingIDToken is returned when Google's token response carries no id_token
var ErrMissingIDToken = errors.New("google token response has no id_token")

// GoogleProfile is the identity Google vouches for after sign-in
type GoogleProfile struct {
	ID      string
	Name    string
	Email   string
	Picture string
}

// GoogleProvider runs the authorization code flow against Google
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

// GoogleConfig holds the OAuth client registration
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleOAuth implements GoogleProvider with golang.org/x/oauth2
type GoogleOAuth struct {
	config   *oauth2.Config
	verifier googleAuthIDTokenVerifier.Verifier
}

// NewGoogleOAuth creates a Google sign-in provider requesting the profile and email scopes
func NewGoogleOAuth(cfg GoogleConfig) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     endpoints.Google,
		},
	}
}

// AuthCodeURL returns the consent page URL carrying state
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for tokens and returns the verified identity
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, ErrMissingIDToken
	}

	if err := g.verifier.VerifyIDToken(idToken, []string{g.config.ClientID}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode id token: %w", err)
	}

	return &GoogleProfile{
		ID:      claims.Sub,
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
	}, nil
}
