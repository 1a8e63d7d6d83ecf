package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"brandgate/internal/domain"
)

// MemoryAdminsRepo in-memory admin_users twin for DB-less dev and tests.
type MemoryAdminsRepo struct {
	mu     sync.RWMutex
	nextID int64
	admins map[int64]domain.AdminUser
}

func NewMemoryAdminsRepo() *MemoryAdminsRepo {
	return &MemoryAdminsRepo{
		nextID: 1,
		admins: map[int64]domain.AdminUser{},
	}
}

var _ AdminsRepository = (*MemoryAdminsRepo)(nil)

func (r *MemoryAdminsRepo) GetAdmin(_ context.Context, userID int64) (*domain.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.admins[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryAdminsRepo) GetAdminByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.admins {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAdminsRepo) ListAdmins(_ context.Context, page, size int) ([]*domain.AdminUser, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.AdminUser, 0, len(r.admins))
	for _, u := range r.admins {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Email < all[j].Email
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

	out := make([]*domain.AdminUser, 0, end-start)
	for i := start; i < end; i++ {
		u := all[i]
		out = append(out, &u)
	}
	return out, total, nil
}

func (r *MemoryAdminsRepo) CreateAdmin(_ context.Context, u *domain.AdminUser) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.admins {
		if strings.EqualFold(existing.Email, u.Email) {
			return 0, fmt.Errorf("email already exists")
		}
	}

	id := r.nextID
	r.nextID++
	stored := *u
	stored.ID = id
	stored.Email = strings.ToLower(u.Email)
	r.admins[id] = stored
	return id, nil
}

func (r *MemoryAdminsRepo) SetAdminActive(_ context.Context, userID int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.admins[userID]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	r.admins[userID] = u
	return nil
}
