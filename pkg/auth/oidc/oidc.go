// Package oidc verifies bearer tokens against an OpenID Connect issuer.
package oidc

import (
	"context"
	"errors"
	"net/http"

	"github.com/panelglot/panelglot/pkg/auth"

	"github.com/coreos/go-oidc/v3/oidc"
)

var _ auth.Provider = (*Provider)(nil)

type Provider struct {
	verifier *oidc.IDTokenVerifier
}

func New(issuer, audience string) (*Provider, error) {
	if issuer == "" {
		return nil, errors.New("issuer is required")
	}

	provider, err := oidc.NewProvider(context.Background(), issuer)

	if err != nil {
		return nil, err
	}

	cfg := &oidc.Config{
		ClientID: audience,
	}

	if audience == "" {
		cfg.SkipClientIDCheck = true
	}

	return &Provider{
		verifier: provider.Verifier(cfg),
	}, nil
}

func (p *Provider) Verify(ctx context.Context, r *http.Request) (*auth.Identity, error) {
	token, ok := auth.BearerToken(r)

	if !ok {
		return nil, errors.New("missing bearer token")
	}

	idtoken, err := p.verifier.Verify(ctx, token)

	if err != nil {
		return nil, err
	}

	identity := &auth.Identity{
		Subject: idtoken.Subject,
	}

	var claims struct {
		Email string `json:"email"`
	}

	if err := idtoken.Claims(&claims); err == nil {
		identity.Email = claims.Email
	}

	return identity, nil
}
