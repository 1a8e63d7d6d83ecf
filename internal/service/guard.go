package service

import (
	"context"
	"errors"
	"fmt"

	"brandgate/internal/autherr"
	"brandgate/internal/domain"
	"brandgate/internal/repository"

	"go.uber.org/zap"
)

// AccessGuard authorizes an authenticated principal against a resolved
// tenant. The admin_user_tenants row is the only source of roles; there is
// no global role column anywhere.
type AccessGuard struct {
	grants  repository.GrantsRepository
	tenants repository.TenantsRepository
	logger  *zap.Logger
}

func NewAccessGuard(grants repository.GrantsRepository, tenants repository.TenantsRepository, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{
		grants:  grants,
		tenants: tenants,
		logger:  logger,
	}
}

// Authorize checks the (user, tenant) grant and the minimum role
// (domain.RoleAny means any grant suffices). Grants on other tenants are
// irrelevant; absence denies.
func (g *AccessGuard) Authorize(ctx context.Context, userID, tenantID int64, minRole domain.Role) (*domain.AuthContext, error) {
	grant, err := g.grants.GetGrant(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			g.logger.Warn("Authorization denied: no grant",
				zap.Int64("user_id", userID),
				zap.Int64("tenant_id", tenantID),
			)
			return nil, autherr.ErrForbidden
		}
		return nil, fmt.Errorf("failed to load grant: %w", err)
	}

	if !grant.Role.AtLeast(minRole) {
		g.logger.Warn("Authorization denied: insufficient role",
			zap.Int64("user_id", userID),
			zap.Int64("tenant_id", tenantID),
			zap.String("role", string(grant.Role)),
			zap.String("required", string(minRole)),
		)
		return nil, autherr.ErrForbidden
	}

	return &domain.AuthContext{
		TenantID:   tenantID,
		TenantRole: grant.Role,
		UserID:     userID,
	}, nil
}

// RequirePlatformAdmin is the stricter global check for platform-wide
// operations (tenant and user management): an admin grant on the reserved
// platform tenant. Tenant-scoped grants elsewhere never satisfy it.
func (g *AccessGuard) RequirePlatformAdmin(ctx context.Context, userID int64) (*domain.AuthContext, error) {
	platform, err := g.tenants.GetTenantByCode(ctx, domain.PlatformTenantCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, autherr.ErrForbidden
		}
		return nil, fmt.Errorf("failed to load platform tenant: %w", err)
	}
	return g.Authorize(ctx, userID, platform.ID, domain.RoleAdmin)
}
