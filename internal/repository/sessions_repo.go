package repository

import (
	"context"

	"brandgate/internal/domain"
)

// SessionsRepository server-stored bearer tokens for both principal kinds.
// Lookups return rows as stored; expiry is the authenticator's check so that
// expired and absent tokens surface identically.
type SessionsRepository interface {
	// ========== Admin sessions ==========
	CreateAdminSession(ctx context.Context, s *domain.AdminSession) error
	GetAdminSession(ctx context.Context, token string) (*domain.AdminSession, error)
	DeleteAdminSession(ctx context.Context, token string) error
	DeleteExpiredAdminSessions(ctx context.Context) (int64, error)

	// ========== End-user sessions (tenant-scoped) ==========
	CreateEndUserSession(ctx context.Context, s *domain.EndUserSession) error
	GetEndUserSession(ctx context.Context, token string) (*domain.EndUserSession, error)
	DeleteEndUserSession(ctx context.Context, token string) error
	DeleteExpiredEndUserSessions(ctx context.Context) (int64, error)
}
