package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"brandgate/internal/domain"
)

// MemorySessionsRepo in-memory sessions twin. Lookups return expired rows
// as stored; expiry is the authenticator's concern, same as Postgres.
type MemorySessionsRepo struct {
	mu       sync.RWMutex
	admins   map[string]domain.AdminSession
	endusers map[string]domain.EndUserSession
}

func NewMemorySessionsRepo() *MemorySessionsRepo {
	return &MemorySessionsRepo{
		admins:   map[string]domain.AdminSession{},
		endusers: map[string]domain.EndUserSession{},
	}
}

var _ SessionsRepository = (*MemorySessionsRepo)(nil)

func (r *MemorySessionsRepo) CreateAdminSession(_ context.Context, s *domain.AdminSession) error {
	if s.Token == "" || s.UserID == 0 {
		return fmt.Errorf("token and user_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[s.Token] = *s
	return nil
}

func (r *MemorySessionsRepo) GetAdminSession(_ context.Context, token string) (*domain.AdminSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.admins[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemorySessionsRepo) DeleteAdminSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.admins, token)
	return nil
}

func (r *MemorySessionsRepo) DeleteExpiredAdminSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for token, s := range r.admins {
		if s.ExpiresAt.Before(now) {
			delete(r.admins, token)
			n++
		}
	}
	return n, nil
}

func (r *MemorySessionsRepo) CreateEndUserSession(_ context.Context, s *domain.EndUserSession) error {
	if s.Token == "" || s.EndUserID == 0 || s.TenantID == 0 {
		return fmt.Errorf("token, enduser_id and tenant_id are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endusers[s.Token] = *s
	return nil
}

func (r *MemorySessionsRepo) GetEndUserSession(_ context.Context, token string) (*domain.EndUserSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.endusers[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *MemorySessionsRepo) DeleteEndUserSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.endusers, token)
	return nil
}

func (r *MemorySessionsRepo) DeleteExpiredEndUserSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for token, s := range r.endusers {
		if s.ExpiresAt.Before(now) {
			delete(r.endusers, token)
			n++
		}
	}
	return n, nil
}
