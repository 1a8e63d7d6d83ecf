package service

import (
	"context"
	"testing"

	"brandgate/internal/autherr"
	"brandgate/internal/domain"
	"brandgate/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupGuard(t *testing.T) (*AccessGuard, repository.GrantsRepository, repository.TenantsRepository) {
	t.Helper()
	grants := repository.NewMemoryGrantsRepo()
	tenants := repository.NewMemoryTenantsRepo()
	return NewAccessGuard(grants, tenants, zap.NewNop()), grants, tenants
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	guard, grants, _ := setupGuard(t)

	require.NoError(t, grants.UpsertGrant(ctx, &domain.Grant{UserID: 1, TenantID: 10, Role: domain.RoleEditor}))
	require.NoError(t, grants.UpsertGrant(ctx, &domain.Grant{UserID: 1, TenantID: 20, Role: domain.RoleViewer}))

	t.Run("role meets requirement", func(t *testing.T) {
		ac, err := guard.Authorize(ctx, 1, 10, domain.RoleEditor)
		require.NoError(t, err)
		assert.Equal(t, int64(10), ac.TenantID)
		assert.Equal(t, domain.RoleEditor, ac.TenantRole)
	})

	t.Run("higher role satisfies lower requirement", func(t *testing.T) {
		_, err := guard.Authorize(ctx, 1, 10, domain.RoleViewer)
		assert.NoError(t, err)
	})

	t.Run("lower role is forbidden", func(t *testing.T) {
		_, err := guard.Authorize(ctx, 1, 10, domain.RoleAdmin)
		assert.ErrorIs(t, err, autherr.ErrForbidden)
	})

	t.Run("grant on another tenant does not transfer", func(t *testing.T) {
		_, err := guard.Authorize(ctx, 1, 30, domain.RoleViewer)
		assert.ErrorIs(t, err, autherr.ErrForbidden)
	})

	t.Run("any-role requirement accepts any grant", func(t *testing.T) {
		ac, err := guard.Authorize(ctx, 1, 20, domain.RoleAny)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleViewer, ac.TenantRole)
	})

	t.Run("no grant at all is forbidden even with any-role", func(t *testing.T) {
		_, err := guard.Authorize(ctx, 99, 10, domain.RoleAny)
		assert.ErrorIs(t, err, autherr.ErrForbidden)
	})
}

func TestRequirePlatformAdmin(t *testing.T) {
	ctx := context.Background()
	guard, grants, tenants := setupGuard(t)

	platformID, err := tenants.CreateTenant(ctx, &domain.Tenant{
		Code: domain.PlatformTenantCode, Name: "Platform", IsActive: true,
	})
	require.NoError(t, err)
	otherID, err := tenants.CreateTenant(ctx, &domain.Tenant{
		Code: "acme", Name: "Acme", IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, grants.UpsertGrant(ctx, &domain.Grant{UserID: 1, TenantID: platformID, Role: domain.RoleAdmin}))
	require.NoError(t, grants.UpsertGrant(ctx, &domain.Grant{UserID: 2, TenantID: otherID, Role: domain.RoleAdmin}))
	require.NoError(t, grants.UpsertGrant(ctx, &domain.Grant{UserID: 3, TenantID: platformID, Role: domain.RoleEditor}))

	t.Run("platform admin passes", func(t *testing.T) {
		ac, err := guard.RequirePlatformAdmin(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, platformID, ac.TenantID)
	})

	t.Run("tenant admin elsewhere is not a platform admin", func(t *testing.T) {
		_, err := guard.RequirePlatformAdmin(ctx, 2)
		assert.ErrorIs(t, err, autherr.ErrForbidden)
	})

	t.Run("non-admin grant on platform is not enough", func(t *testing.T) {
		_, err := guard.RequirePlatformAdmin(ctx, 3)
		assert.ErrorIs(t, err, autherr.ErrForbidden)
	})
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleEditor))
	assert.True(t, domain.RoleEditor.AtLeast(domain.RoleViewer))
	assert.False(t, domain.RoleViewer.AtLeast(domain.RoleEditor))
	assert.False(t, domain.Role("superuser").AtLeast(domain.RoleViewer), "unknown roles never satisfy")
	assert.False(t, domain.Role("").AtLeast(domain.RoleAny), "empty role is not a grant")
}
