package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"brandgate/internal/domain"
)

// PostgresTenantsRepo tenants table implementation.
type PostgresTenantsRepo struct {
	db *sql.DB
}

func NewPostgresTenantsRepo(db *sql.DB) *PostgresTenantsRepo {
	return &PostgresTenantsRepo{db: db}
}

var _ TenantsRepository = (*PostgresTenantsRepo)(nil)

const tenantColumns = `tenant_id, tenant_code, tenant_name,
       COALESCE(primary_domain, ''), is_active,
       allow_enduser_login, allow_enduser_signup, COALESCE(branding, 'null')`

func scanTenant(row *sql.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	var branding []byte
	err := row.Scan(
		&t.ID,
		&t.Code,
		&t.Name,
		&t.PrimaryDomain,
		&t.IsActive,
		&t.AllowEnduserLogin,
		&t.AllowEnduserSignup,
		&branding,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	t.Branding = json.RawMessage(branding)
	return &t, nil
}

func (r *PostgresTenantsRepo) GetTenant(ctx context.Context, tenantID int64) (*domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE tenant_id = $1`, tenantID)
	return scanTenant(row)
}

func (r *PostgresTenantsRepo) GetTenantByCode(ctx context.Context, code string) (*domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE tenant_code = $1`, code)
	return scanTenant(row)
}

func (r *PostgresTenantsRepo) GetTenantByDomain(ctx context.Context, dom string) (*domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE primary_domain = $1`, dom)
	return scanTenant(row)
}

func (r *PostgresTenantsRepo) ListTenants(ctx context.Context, filter TenantFilters, page, size int) ([]*domain.Tenant, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}

	where := []string{}
	args := []any{}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("tenant_name ILIKE $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	args = append(args, size, (page-1)*size)
	query := `SELECT ` + tenantColumns + ` FROM tenants` + cond +
		fmt.Sprintf(` ORDER BY tenant_name ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		var branding []byte
		if err := rows.Scan(
			&t.ID, &t.Code, &t.Name, &t.PrimaryDomain, &t.IsActive,
			&t.AllowEnduserLogin, &t.AllowEnduserSignup, &branding,
		); err != nil {
			continue
		}
		t.Branding = json.RawMessage(branding)
		tenants = append(tenants, &t)
	}
	return tenants, total, nil
}

func (r *PostgresTenantsRepo) CreateTenant(ctx context.Context, t *domain.Tenant) (int64, error) {
	if t.Code == "" || t.Name == "" {
		return 0, fmt.Errorf("tenant_code and tenant_name are required")
	}

	branding := t.Branding
	if len(branding) == 0 {
		branding = json.RawMessage("null")
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tenants (tenant_code, tenant_name, primary_domain, is_active,
		                      allow_enduser_login, allow_enduser_signup, branding)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		 RETURNING tenant_id`,
		t.Code, t.Name, t.PrimaryDomain, t.IsActive,
		t.AllowEnduserLogin, t.AllowEnduserSignup, []byte(branding),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create tenant: %w", err)
	}
	return id, nil
}

func (r *PostgresTenantsRepo) UpdateTenant(ctx context.Context, tenantID int64, t *domain.Tenant) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenants
		    SET tenant_name = $2,
		        primary_domain = NULLIF($3, ''),
		        allow_enduser_login = $4,
		        allow_enduser_signup = $5
		  WHERE tenant_id = $1`,
		tenantID, t.Name, t.PrimaryDomain, t.AllowEnduserLogin, t.AllowEnduserSignup,
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTenantsRepo) SetTenantActive(ctx context.Context, tenantID int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET is_active = $2 WHERE tenant_id = $1`, tenantID, active)
	if err != nil {
		return fmt.Errorf("failed to set tenant status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresTenantsRepo) UpdateBranding(ctx context.Context, tenantID int64, branding json.RawMessage) error {
	if len(branding) == 0 {
		branding = json.RawMessage("null")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET branding = $2 WHERE tenant_id = $1`, tenantID, []byte(branding))
	if err != nil {
		return fmt.Errorf("failed to update branding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
