// Package header trusts identity headers set by an authenticating proxy.
package header

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/panelglot/panelglot/pkg/auth"
)

var _ auth.Provider = (*Provider)(nil)

type Provider struct {
	subjectHeader string
	emailHeader   string
}

func New(options ...Option) (*Provider, error) {
	p := &Provider{
		subjectHeader: "X-Forwarded-User",
		emailHeader:   "X-Forwarded-Email",
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

func (p *Provider) Verify(ctx context.Context, r *http.Request) (*auth.Identity, error) {
	subject := strings.TrimSpace(r.Header.Get(p.subjectHeader))
	email := strings.TrimSpace(r.Header.Get(p.emailHeader))

	if subject == "" && email == "" {
		return nil, errors.New("no identity headers present")
	}

	// Proxies commonly put the email in the user header.
	if email == "" && strings.Contains(subject, "@") {
		email = subject
	}

	return &auth.Identity{
		Subject: subject,
		Email:   email,
	}, nil
}
