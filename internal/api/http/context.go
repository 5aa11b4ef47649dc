package http

import (
	"context"

	"fieldops-backend/internal/security"
)

type contextKey int

const claimsKey contextKey = iota

func withClaims(ctx context.Context, claims *security.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated caller, or nil on public routes.
func ClaimsFromContext(ctx context.Context) *security.SessionClaims {
	claims, _ := ctx.Value(claimsKey).(*security.SessionClaims)
	return claims
}
