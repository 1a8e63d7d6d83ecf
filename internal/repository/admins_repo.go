package repository

import (
	"context"

	"brandgate/internal/domain"
)

// AdminsRepository admin_users data access.
type AdminsRepository interface {
	GetAdmin(ctx context.Context, userID int64) (*domain.AdminUser, error)

	// GetAdminByEmail is the login lookup; email has a unique index.
	GetAdminByEmail(ctx context.Context, email string) (*domain.AdminUser, error)

	ListAdmins(ctx context.Context, page, size int) ([]*domain.AdminUser, int, error)
	CreateAdmin(ctx context.Context, u *domain.AdminUser) (int64, error)
	SetAdminActive(ctx context.Context, userID int64, active bool) error
}

// GrantsRepository admin_user_tenants data access. A row here is the only
// thing that authorizes an admin against a tenant.
type GrantsRepository interface {
	// GetGrant returns ErrNotFound when the (user, tenant) pair has no row,
	// regardless of the user's grants on other tenants.
	GetGrant(ctx context.Context, userID, tenantID int64) (*domain.Grant, error)

	ListGrantsByUser(ctx context.Context, userID int64) ([]*domain.Grant, error)
	ListGrantsByTenant(ctx context.Context, tenantID int64) ([]*domain.Grant, error)
	UpsertGrant(ctx context.Context, g *domain.Grant) error
	DeleteGrant(ctx context.Context, userID, tenantID int64) error
}
