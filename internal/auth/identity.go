// Package auth connects the application to an external identity provider and
// keeps the signed-in identity in a session cookie.
package auth

import (
	"context"
	"errors"
)

// Identity is the signed-in user as reported by the provider.
type Identity struct {
	ID          string
	DisplayName string
	PhotoURL    string
	Email       string
}

// Name returns the display name, or "User" when the provider sent none.
func (i Identity) Name() string {
	if i.DisplayName == "" {
		return "User"
	}
	return i.DisplayName
}

var (
	// ErrNoSession means the request carries no valid session.
	ErrNoSession = errors.New("no active session")
	// ErrStateMismatch means the callback's state does not match the one issued.
	ErrStateMismatch = errors.New("oauth state mismatch")
)

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity attached by Middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.ID != ""
}
