package httpapi

import (
	"errors"
	"net/http"

	"brandgate/internal/autherr"
	"brandgate/internal/domain"
	"brandgate/internal/service"

	"go.uber.org/zap"
)

// Pipeline is the request-context backbone:
// resolve tenant → authenticate principal → authorize → hand off.
// Every protected route goes through exactly one of its entry points;
// handlers downstream read the results from the request context.
type Pipeline struct {
	resolver *service.TenantResolver
	auth     *service.AuthService
	guard    *service.AccessGuard
	logger   *zap.Logger
}

func NewPipeline(resolver *service.TenantResolver, auth *service.AuthService, guard *service.AccessGuard, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		auth:     auth,
		guard:    guard,
		logger:   logger,
	}
}

// Public resolves the tenant strictly from the Host header. Unknown host is
// a plain 404 with no tenant detail in the body.
func (p *Pipeline) Public(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := p.resolver.ResolvePublic(r.Context(), r.Host)
		if err != nil {
			writeError(w, p.logger, err)
			return
		}
		next(w, r.WithContext(WithTenant(r.Context(), tenant)))
	}
}

// Admin authenticates the bearer token, resolves the tenant from the
// X-Tenant-Id/X-Tenant-Code headers and authorizes the admin's grant.
// Authentication runs first so nothing tenant-scoped happens for an
// unauthenticated request; tenant errors on admin routes are a 400 contract.
func (p *Pipeline) Admin(minRole domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		principal, err := p.auth.AuthenticateAdmin(ctx, BearerToken(r))
		if err != nil {
			writeError(w, p.logger, err)
			return
		}

		tenant, err := p.resolver.ResolveAdmin(ctx, r.Header.Get("X-Tenant-Id"), r.Header.Get("X-Tenant-Code"))
		if err != nil {
			if errors.Is(err, autherr.ErrTenantNotFound) {
				err = autherr.ErrTenantRequired
			}
			writeError(w, p.logger, err)
			return
		}

		ac, err := p.guard.Authorize(ctx, principal.UserID, tenant.ID, minRole)
		if err != nil {
			writeError(w, p.logger, err)
			return
		}

		ctx = WithTenant(ctx, tenant)
		ctx = WithPrincipal(ctx, principal)
		ctx = WithAuthContext(ctx, ac)
		next(w, r.WithContext(ctx))
	}
}

// Platform guards platform-wide operations (tenant/user management).
// No tenant headers are involved; the grant must be admin on the reserved
// platform tenant.
func (p *Pipeline) Platform(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		principal, err := p.auth.AuthenticateAdmin(ctx, BearerToken(r))
		if err != nil {
			writeError(w, p.logger, err)
			return
		}

		ac, err := p.guard.RequirePlatformAdmin(ctx, principal.UserID)
		if err != nil {
			writeError(w, p.logger, err)
			return
		}

		ctx = WithPrincipal(ctx, principal)
		ctx = WithAuthContext(ctx, ac)
		next(w, r.WithContext(ctx))
	}
}

// AdminOnly authenticates without tenant resolution, for routes like
// /admin/me that only need the principal.
func (p *Pipeline) AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := p.auth.AuthenticateAdmin(r.Context(), BearerToken(r))
		if err != nil {
			writeError(w, p.logger, err)
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	}
}

// Enduser resolves the tenant from Host, then authenticates the visitor
// token inside that tenant. A token issued for another tenant fails closed.
func (p *Pipeline) Enduser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tenant, err := p.resolver.ResolvePublic(ctx, r.Host)
		if err != nil {
			writeError(w, p.logger, err)
			return
		}

		principal, err := p.auth.AuthenticateEnduser(ctx, BearerToken(r), tenant.ID)
		if err != nil {
			writeError(w, p.logger, err)
			return
		}

		ctx = WithTenant(ctx, tenant)
		ctx = WithPrincipal(ctx, principal)
		next(w, r.WithContext(ctx))
	}
}
