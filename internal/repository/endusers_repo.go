package repository

import (
	"context"

	"brandgate/internal/domain"
)

// EndUsersRepository endusers data access. Email uniqueness is per tenant;
// every query is tenant-filtered except the verify-token lookup, whose token
// is globally unique.
type EndUsersRepository interface {
	GetEndUser(ctx context.Context, enduserID int64) (*domain.EndUser, error)
	GetEndUserByEmail(ctx context.Context, tenantID int64, email string) (*domain.EndUser, error)
	CreateEndUser(ctx context.Context, u *domain.EndUser) (int64, error)

	GetEndUserByVerifyToken(ctx context.Context, token string) (*domain.EndUser, error)
	MarkEmailVerified(ctx context.Context, enduserID int64) error
}
