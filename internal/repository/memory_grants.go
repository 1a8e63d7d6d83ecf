package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"brandgate/internal/domain"
)

type grantKey struct {
	userID   int64
	tenantID int64
}

// MemoryGrantsRepo in-memory admin_user_tenants twin.
type MemoryGrantsRepo struct {
	mu     sync.RWMutex
	grants map[grantKey]domain.Grant
}

func NewMemoryGrantsRepo() *MemoryGrantsRepo {
	return &MemoryGrantsRepo{
		grants: map[grantKey]domain.Grant{},
	}
}

var _ GrantsRepository = (*MemoryGrantsRepo)(nil)

func (r *MemoryGrantsRepo) GetGrant(_ context.Context, userID, tenantID int64) (*domain.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.grants[grantKey{userID, tenantID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (r *MemoryGrantsRepo) ListGrantsByUser(_ context.Context, userID int64) ([]*domain.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Grant
	for k, g := range r.grants {
		if k.userID == userID {
			cp := g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TenantID < out[j].TenantID
	})
	return out, nil
}

func (r *MemoryGrantsRepo) ListGrantsByTenant(_ context.Context, tenantID int64) ([]*domain.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Grant
	for k, g := range r.grants {
		if k.tenantID == tenantID {
			cp := g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *MemoryGrantsRepo) UpsertGrant(_ context.Context, g *domain.Grant) error {
	if !g.Role.Valid() {
		return fmt.Errorf("invalid role %q", g.Role)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[grantKey{g.UserID, g.TenantID}] = *g
	return nil
}

func (r *MemoryGrantsRepo) DeleteGrant(_ context.Context, userID, tenantID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := grantKey{userID, tenantID}
	if _, ok := r.grants[k]; !ok {
		return ErrNotFound
	}
	delete(r.grants, k)
	return nil
}
