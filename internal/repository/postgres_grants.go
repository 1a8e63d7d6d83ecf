package repository

import (
	"context"
	"database/sql"
	"fmt"

	"brandgate/internal/domain"
)

// PostgresGrantsRepo admin_user_tenants table implementation.
type PostgresGrantsRepo struct {
	db *sql.DB
}

func NewPostgresGrantsRepo(db *sql.DB) *PostgresGrantsRepo {
	return &PostgresGrantsRepo{db: db}
}

var _ GrantsRepository = (*PostgresGrantsRepo)(nil)

func (r *PostgresGrantsRepo) GetGrant(ctx context.Context, userID, tenantID int64) (*domain.Grant, error) {
	var g domain.Grant
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, tenant_id, role
		   FROM admin_user_tenants
		  WHERE user_id = $1 AND tenant_id = $2`,
		userID, tenantID,
	).Scan(&g.UserID, &g.TenantID, &g.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get grant: %w", err)
	}
	return &g, nil
}

func (r *PostgresGrantsRepo) ListGrantsByUser(ctx context.Context, userID int64) ([]*domain.Grant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, tenant_id, role
		   FROM admin_user_tenants
		  WHERE user_id = $1
		  ORDER BY tenant_id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants by user: %w", err)
	}
	defer rows.Close()
	return collectGrants(rows), nil
}

func (r *PostgresGrantsRepo) ListGrantsByTenant(ctx context.Context, tenantID int64) ([]*domain.Grant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, tenant_id, role
		   FROM admin_user_tenants
		  WHERE tenant_id = $1
		  ORDER BY user_id ASC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants by tenant: %w", err)
	}
	defer rows.Close()
	return collectGrants(rows), nil
}

func collectGrants(rows *sql.Rows) []*domain.Grant {
	var grants []*domain.Grant
	for rows.Next() {
		var g domain.Grant
		if err := rows.Scan(&g.UserID, &g.TenantID, &g.Role); err != nil {
			continue
		}
		grants = append(grants, &g)
	}
	return grants
}

func (r *PostgresGrantsRepo) UpsertGrant(ctx context.Context, g *domain.Grant) error {
	if !g.Role.Valid() {
		return fmt.Errorf("invalid role %q", g.Role)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_user_tenants (user_id, tenant_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, tenant_id)
		 DO UPDATE SET role = EXCLUDED.role`,
		g.UserID, g.TenantID, string(g.Role),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert grant: %w", err)
	}
	return nil
}

func (r *PostgresGrantsRepo) DeleteGrant(ctx context.Context, userID, tenantID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_user_tenants WHERE user_id = $1 AND tenant_id = $2`,
		userID, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete grant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
