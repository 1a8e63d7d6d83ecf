package httpapi

import (
	"context"

	"brandgate/internal/domain"
)

type ctxKey int

const (
	ctxKeyTenant ctxKey = iota
	ctxKeyPrincipal
	ctxKeyAuthContext
)

// WithTenant / GetTenant carry the resolved tenant through the request.
func WithTenant(ctx context.Context, t *domain.Tenant) context.Context {
	return context.WithValue(ctx, ctxKeyTenant, t)
}

func GetTenant(ctx context.Context) (*domain.Tenant, bool) {
	t, ok := ctx.Value(ctxKeyTenant).(*domain.Tenant)
	return t, ok
}

// WithPrincipal / GetPrincipal carry the authenticated actor.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

func GetPrincipal(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(*domain.Principal)
	return p, ok
}

// WithAuthContext / GetAuthContext carry the authorization result the
// pipeline hands to module handlers. Handlers scope queries by this and
// never re-derive tenant or user identity.
func WithAuthContext(ctx context.Context, ac *domain.AuthContext) context.Context {
	return context.WithValue(ctx, ctxKeyAuthContext, ac)
}

func GetAuthContext(ctx context.Context) (*domain.AuthContext, bool) {
	ac, ok := ctx.Value(ctxKeyAuthContext).(*domain.AuthContext)
	return ac, ok
}
