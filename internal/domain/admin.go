package domain

import "time"

// AdminUser is a back-office operator (admin_users table).
// No role column: roles live exclusively on Grant (admin_user_tenants).
type AdminUser struct {
	ID           int64  `db:"user_id" json:"userId"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"` // UNIQUE
	PasswordHash string `db:"password_hash" json:"-"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

// Grant links an admin user to a tenant with a role (admin_user_tenants table).
// This is the authorization relationship the Access Guard checks.
type Grant struct {
	UserID   int64 `db:"user_id" json:"userId"`
	TenantID int64 `db:"tenant_id" json:"tenantId"`
	Role     Role  `db:"role" json:"role"`
}

// AdminSession is an opaque server-stored bearer token (admin_sessions table).
// Expired rows authenticate as absent; a background purge removes them.
type AdminSession struct {
	Token     string    `db:"token"`
	UserID    int64     `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}
