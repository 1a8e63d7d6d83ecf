package domain

import "encoding/json"

// PlatformTenantCode is the reserved tenant for platform-level operations
// (tenant/user management). An admin grant on it is the "global admin" role.
const PlatformTenantCode = "platform"

// Tenant is one branded site sharing the platform (tenants table).
// Looked up by id (X-Tenant-Id), code (X-Tenant-Code) or primary_domain (Host).
type Tenant struct {
	ID                 int64  `db:"tenant_id" json:"tenantId"`
	Code               string `db:"tenant_code" json:"tenantCode"` // UNIQUE
	Name               string `db:"tenant_name" json:"tenantName"`
	PrimaryDomain      string `db:"primary_domain" json:"primaryDomain"` // UNIQUE, nullable
	IsActive           bool   `db:"is_active" json:"isActive"`
	AllowEnduserLogin  bool   `db:"allow_enduser_login" json:"allowEnduserLogin"`
	AllowEnduserSignup bool   `db:"allow_enduser_signup" json:"allowEnduserSignup"`

	// Branding is the per-site display config served to the frontend (JSONB).
	Branding json.RawMessage `db:"branding" json:"branding"`
}
