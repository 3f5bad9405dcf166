// Package auth decides whether a request may use the HTTP surface.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity describes the caller a provider admitted. It may be empty for
// anonymous schemes such as a shared token.
type Identity struct {
	Subject string
	Email   string
}

// Provider checks the credentials on a request. A nil error admits it.
type Provider interface {
	Verify(ctx context.Context, r *http.Request) (*Identity, error)
}

type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a context carrying the admitted identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom reports the identity stored by the authorization middleware.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")

	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
