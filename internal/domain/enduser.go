package domain

import "time"

// EndUser is a site visitor account, always scoped to one tenant
// (endusers table, email unique per tenant).
type EndUser struct {
	ID              int64      `db:"enduser_id" json:"enduserId"`
	TenantID        int64      `db:"tenant_id" json:"tenantId"`
	Email           string     `db:"email" json:"email"`
	Name            string     `db:"name" json:"name"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	IsActive        bool       `db:"is_active" json:"isActive"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"emailVerifiedAt"`
	VerifyToken     string     `db:"verify_token" json:"-"`
	VerifyExpiresAt *time.Time `db:"verify_expires_at" json:"-"`
}

// EndUserSession is valid only for the tenant it was issued for;
// presenting it against another tenant fails closed.
type EndUserSession struct {
	Token     string    `db:"token"`
	EndUserID int64     `db:"enduser_id"`
	TenantID  int64     `db:"tenant_id"`
	ExpiresAt time.Time `db:"expires_at"`
}
