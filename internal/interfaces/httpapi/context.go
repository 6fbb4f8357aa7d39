package httpapi

import (
	"context"

	"github.com/riskibarqy/match-tracker/internal/domain/user"
)

type contextKey string

const principalContextKey contextKey = "httpapi.principal"

func withPrincipal(ctx context.Context, principal user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(user.Principal)
	return principal, ok
}
