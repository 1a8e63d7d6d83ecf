package service

import (
	"context"
	"strconv"
	"testing"

	"brandgate/internal/autherr"
	"brandgate/internal/domain"
	"brandgate/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupResolver(t *testing.T) (*TenantResolver, repository.TenantsRepository) {
	t.Helper()
	tenants := repository.NewMemoryTenantsRepo()
	resolver := NewTenantResolver(tenants, "main", zap.NewNop())
	return resolver, tenants
}

func mustCreateTenant(t *testing.T, tenants repository.TenantsRepository, tenant *domain.Tenant) int64 {
	t.Helper()
	id, err := tenants.CreateTenant(context.Background(), tenant)
	require.NoError(t, err)
	return id
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"acme.example.com", "acme.example.com"},
		{"ACME.Example.COM", "acme.example.com"},
		{"acme.example.com:8443", "acme.example.com"},
		{" acme.example.com ", "acme.example.com"},
		{"[::1]:8080", "::1"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHost(tt.in), "input %q", tt.in)
	}
}

func TestResolvePublic(t *testing.T) {
	resolver, tenants := setupResolver(t)
	ctx := context.Background()

	mustCreateTenant(t, tenants, &domain.Tenant{
		Code: "acme", Name: "Acme", PrimaryDomain: "acme.example.com", IsActive: true,
	})
	mustCreateTenant(t, tenants, &domain.Tenant{
		Code: "ghost", Name: "Ghost", PrimaryDomain: "ghost.example.com", IsActive: false,
	})

	t.Run("known domain resolves", func(t *testing.T) {
		tenant, err := resolver.ResolvePublic(ctx, "acme.example.com")
		require.NoError(t, err)
		assert.Equal(t, "acme", tenant.Code)
	})

	t.Run("port and case are stripped", func(t *testing.T) {
		tenant, err := resolver.ResolvePublic(ctx, "ACME.example.com:8443")
		require.NoError(t, err)
		assert.Equal(t, "acme", tenant.Code)
	})

	t.Run("unknown domain is not found", func(t *testing.T) {
		_, err := resolver.ResolvePublic(ctx, "nobody.example.com")
		assert.ErrorIs(t, err, autherr.ErrTenantNotFound)
	})

	t.Run("inactive tenant is not found", func(t *testing.T) {
		_, err := resolver.ResolvePublic(ctx, "ghost.example.com")
		assert.ErrorIs(t, err, autherr.ErrTenantNotFound)
	})

	t.Run("empty host is not found", func(t *testing.T) {
		_, err := resolver.ResolvePublic(ctx, "")
		assert.ErrorIs(t, err, autherr.ErrTenantNotFound)
	})
}

func TestResolveAdmin(t *testing.T) {
	resolver, tenants := setupResolver(t)
	ctx := context.Background()

	acmeID := mustCreateTenant(t, tenants, &domain.Tenant{
		Code: "acme", Name: "Acme", IsActive: true,
	})

	t.Run("by id header", func(t *testing.T) {
		tenant, err := resolver.ResolveAdmin(ctx, strconv.FormatInt(acmeID, 10), "")
		require.NoError(t, err)
		assert.Equal(t, acmeID, tenant.ID)
	})

	t.Run("by code header", func(t *testing.T) {
		tenant, err := resolver.ResolveAdmin(ctx, "", "acme")
		require.NoError(t, err)
		assert.Equal(t, acmeID, tenant.ID)
	})

	t.Run("id wins over code", func(t *testing.T) {
		tenant, err := resolver.ResolveAdmin(ctx, strconv.FormatInt(acmeID, 10), "does-not-exist")
		require.NoError(t, err)
		assert.Equal(t, acmeID, tenant.ID)
	})

	t.Run("no headers means tenant required", func(t *testing.T) {
		_, err := resolver.ResolveAdmin(ctx, "", "")
		assert.ErrorIs(t, err, autherr.ErrTenantRequired)
	})

	t.Run("literal null is treated as absent", func(t *testing.T) {
		_, err := resolver.ResolveAdmin(ctx, "null", "null")
		assert.ErrorIs(t, err, autherr.ErrTenantRequired)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := resolver.ResolveAdmin(ctx, "9999", "")
		assert.ErrorIs(t, err, autherr.ErrTenantNotFound)
	})

	t.Run("non-numeric id is not found", func(t *testing.T) {
		_, err := resolver.ResolveAdmin(ctx, "abc", "")
		assert.ErrorIs(t, err, autherr.ErrTenantNotFound)
	})
}

func TestResolveLegacy(t *testing.T) {
	resolver, tenants := setupResolver(t)
	ctx := context.Background()

	mustCreateTenant(t, tenants, &domain.Tenant{
		Code: "main", Name: "Main", IsActive: true,
	})
	acmeID := mustCreateTenant(t, tenants, &domain.Tenant{
		Code: "acme", Name: "Acme", PrimaryDomain: "acme.example.com", IsActive: true,
	})

	t.Run("id header has highest priority", func(t *testing.T) {
		tenant, err := resolver.ResolveLegacy(ctx, strconv.FormatInt(acmeID, 10), "main", "https://acme.example.com", "")
		require.NoError(t, err)
		assert.Equal(t, "acme", tenant.Code)
	})

	t.Run("unresolvable id falls through to code", func(t *testing.T) {
		tenant, err := resolver.ResolveLegacy(ctx, "9999", "acme", "", "")
		require.NoError(t, err)
		assert.Equal(t, "acme", tenant.Code)
	})

	t.Run("origin host resolves", func(t *testing.T) {
		tenant, err := resolver.ResolveLegacy(ctx, "", "", "https://acme.example.com:443", "")
		require.NoError(t, err)
		assert.Equal(t, "acme", tenant.Code)
	})

	t.Run("referer resolves after origin misses", func(t *testing.T) {
		tenant, err := resolver.ResolveLegacy(ctx, "", "", "https://unknown.example.com", "https://acme.example.com/login")
		require.NoError(t, err)
		assert.Equal(t, "acme", tenant.Code)
	})

	t.Run("no signal falls back to default tenant", func(t *testing.T) {
		tenant, err := resolver.ResolveLegacy(ctx, "", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, "main", tenant.Code)
	})
}

func TestResolveLegacyNoDefault(t *testing.T) {
	tenants := repository.NewMemoryTenantsRepo()
	resolver := NewTenantResolver(tenants, "", zap.NewNop())

	_, err := resolver.ResolveLegacy(context.Background(), "", "", "", "")
	assert.ErrorIs(t, err, autherr.ErrTenantNotFound)
}
