package repository

import (
	"context"
	"encoding/json"

	"brandgate/internal/domain"
)

// TenantsRepository tenant data access. Read paths are what the resolver
// uses; write paths serve platform-level tenant management.
type TenantsRepository interface {
	// ========== Lookups (resolver) ==========
	// GetTenant fetches by id (X-Tenant-Id resolution).
	GetTenant(ctx context.Context, tenantID int64) (*domain.Tenant, error)

	// GetTenantByCode fetches by tenant_code (X-Tenant-Code resolution
	// and the legacy default fallback). tenant_code has a unique index.
	GetTenantByCode(ctx context.Context, code string) (*domain.Tenant, error)

	// GetTenantByDomain fetches by primary_domain (public Host resolution).
	// primary_domain has a unique index; lookups use the port-stripped host.
	GetTenantByDomain(ctx context.Context, domain string) (*domain.Tenant, error)

	// ========== Management (platform admin) ==========
	ListTenants(ctx context.Context, filter TenantFilters, page, size int) ([]*domain.Tenant, int, error)
	CreateTenant(ctx context.Context, t *domain.Tenant) (int64, error)
	UpdateTenant(ctx context.Context, tenantID int64, t *domain.Tenant) error
	SetTenantActive(ctx context.Context, tenantID int64, active bool) error

	// UpdateBranding replaces the tenant's branding JSON (site module).
	UpdateBranding(ctx context.Context, tenantID int64, branding json.RawMessage) error
}

// TenantFilters list filtering options.
type TenantFilters struct {
	Active *bool  // optional is_active filter
	Search string // optional tenant_name substring match
}
