// Package static admits requests bearing a preconfigured token.
package static

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/panelglot/panelglot/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

type Provider struct {
	token string
}

func New(token string) (*Provider, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}

	return &Provider{
		token: token,
	}, nil
}

func (p *Provider) Verify(ctx context.Context, r *http.Request) (*auth.Identity, error) {
	token, ok := auth.BearerToken(r)

	if !ok {
		return nil, errors.New("missing bearer token")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return nil, errors.New("invalid token")
	}

	return &auth.Identity{}, nil
}
