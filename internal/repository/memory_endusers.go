package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"brandgate/internal/domain"
)

// MemoryEndUsersRepo in-memory endusers twin.
type MemoryEndUsersRepo struct {
	mu       sync.RWMutex
	nextID   int64
	endusers map[int64]domain.EndUser
}

func NewMemoryEndUsersRepo() *MemoryEndUsersRepo {
	return &MemoryEndUsersRepo{
		nextID:   1,
		endusers: map[int64]domain.EndUser{},
	}
}

var _ EndUsersRepository = (*MemoryEndUsersRepo)(nil)

func (r *MemoryEndUsersRepo) GetEndUser(_ context.Context, enduserID int64) (*domain.EndUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.endusers[enduserID]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryEndUsersRepo) GetEndUserByEmail(_ context.Context, tenantID int64, email string) (*domain.EndUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.endusers {
		if u.TenantID == tenantID && strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryEndUsersRepo) CreateEndUser(_ context.Context, u *domain.EndUser) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.endusers {
		if existing.TenantID == u.TenantID && strings.EqualFold(existing.Email, u.Email) {
			return 0, fmt.Errorf("email already exists for tenant")
		}
	}

	id := r.nextID
	r.nextID++
	stored := *u
	stored.ID = id
	stored.Email = strings.ToLower(u.Email)
	r.endusers[id] = stored
	return id, nil
}

func (r *MemoryEndUsersRepo) GetEndUserByVerifyToken(_ context.Context, token string) (*domain.EndUser, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.endusers {
		if u.VerifyToken == token {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryEndUsersRepo) MarkEmailVerified(_ context.Context, enduserID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.endusers[enduserID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	u.EmailVerifiedAt = &now
	u.VerifyToken = ""
	u.VerifyExpiresAt = nil
	r.endusers[enduserID] = u
	return nil
}
