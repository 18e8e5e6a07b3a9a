// Package auth carries the caller's bearer token through the saga as an
// explicit context value, so downstream clients re-authenticate with the
// same credential the caller presented.
package auth

import (
	"context"

	"github.com/skyops/flightbooking/internal/domain"
)

type tokenKey struct{}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the caller's credential, unmodified, or ErrAuthorization if
// none was attached.
func Token(ctx context.Context) (string, error) {
	token, ok := ctx.Value(tokenKey{}).(string)
	if !ok || token == "" {
		return "", domain.ErrAuthorization
	}
	return token, nil
}
