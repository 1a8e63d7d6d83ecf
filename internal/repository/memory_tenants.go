package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"brandgate/internal/domain"
)

// MemoryTenantsRepo supports tenant management and resolution when DB is
// disabled. NOTE: platform-level data, not per-tenant.
type MemoryTenantsRepo struct {
	mu      sync.RWMutex
	nextID  int64
	tenants map[int64]domain.Tenant
}

func NewMemoryTenantsRepo() *MemoryTenantsRepo {
	return &MemoryTenantsRepo{
		nextID:  1,
		tenants: map[int64]domain.Tenant{},
	}
}

var _ TenantsRepository = (*MemoryTenantsRepo)(nil)

func (r *MemoryTenantsRepo) GetTenant(_ context.Context, tenantID int64) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (r *MemoryTenantsRepo) GetTenantByCode(_ context.Context, code string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tenants {
		if t.Code == code {
			out := t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTenantsRepo) GetTenantByDomain(_ context.Context, dom string) (*domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tenants {
		if t.PrimaryDomain != "" && t.PrimaryDomain == dom {
			out := t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryTenantsRepo) ListTenants(_ context.Context, filter TenantFilters, page, size int) ([]*domain.Tenant, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		if filter.Active != nil && t.IsActive != *filter.Active {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Search)) {
			continue
		}
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})

	total := len(all)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	out := make([]*domain.Tenant, 0, end-start)
	for i := start; i < end; i++ {
		t := all[i]
		out = append(out, &t)
	}
	return out, total, nil
}

func (r *MemoryTenantsRepo) CreateTenant(_ context.Context, t *domain.Tenant) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	stored := *t
	stored.ID = id
	r.tenants[id] = stored
	return id, nil
}

func (r *MemoryTenantsRepo) UpdateTenant(_ context.Context, tenantID int64, t *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.tenants[tenantID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = t.Name
	cur.PrimaryDomain = t.PrimaryDomain
	cur.AllowEnduserLogin = t.AllowEnduserLogin
	cur.AllowEnduserSignup = t.AllowEnduserSignup
	r.tenants[tenantID] = cur
	return nil
}

func (r *MemoryTenantsRepo) SetTenantActive(_ context.Context, tenantID int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return ErrNotFound
	}
	t.IsActive = active
	r.tenants[tenantID] = t
	return nil
}

func (r *MemoryTenantsRepo) UpdateBranding(_ context.Context, tenantID int64, branding json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tenants[tenantID]
	if !ok {
		return ErrNotFound
	}
	t.Branding = append(json.RawMessage(nil), branding...)
	r.tenants[tenantID] = t
	return nil
}
