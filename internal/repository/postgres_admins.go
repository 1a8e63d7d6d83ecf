package repository

import (
	"context"
	"database/sql"
	"fmt"

	"brandgate/internal/domain"
)

// PostgresAdminsRepo admin_users table implementation.
type PostgresAdminsRepo struct {
	db *sql.DB
}

func NewPostgresAdminsRepo(db *sql.DB) *PostgresAdminsRepo {
	return &PostgresAdminsRepo{db: db}
}

var _ AdminsRepository = (*PostgresAdminsRepo)(nil)

const adminColumns = `user_id, COALESCE(name, ''), email, password_hash, is_active`

func scanAdmin(row *sql.Row) (*domain.AdminUser, error) {
	var u domain.AdminUser
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan admin user: %w", err)
	}
	return &u, nil
}

func (r *PostgresAdminsRepo) GetAdmin(ctx context.Context, userID int64) (*domain.AdminUser, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE user_id = $1`, userID)
	return scanAdmin(row)
}

func (r *PostgresAdminsRepo) GetAdminByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE lower(email) = lower($1)`, email)
	return scanAdmin(row)
}

func (r *PostgresAdminsRepo) ListAdmins(ctx context.Context, page, size int) ([]*domain.AdminUser, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count admin users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users ORDER BY email ASC LIMIT $1 OFFSET $2`,
		size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list admin users: %w", err)
	}
	defer rows.Close()

	var admins []*domain.AdminUser
	for rows.Next() {
		var u domain.AdminUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsActive); err != nil {
			continue
		}
		admins = append(admins, &u)
	}
	return admins, total, nil
}

func (r *PostgresAdminsRepo) CreateAdmin(ctx context.Context, u *domain.AdminUser) (int64, error) {
	if u.Email == "" || u.PasswordHash == "" {
		return 0, fmt.Errorf("email and password_hash are required")
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO admin_users (name, email, password_hash, is_active)
		 VALUES ($1, lower($2), $3, $4)
		 RETURNING user_id`,
		u.Name, u.Email, u.PasswordHash, u.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create admin user: %w", err)
	}
	return id, nil
}

func (r *PostgresAdminsRepo) SetAdminActive(ctx context.Context, userID int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET is_active = $2 WHERE user_id = $1`, userID, active)
	if err != nil {
		return fmt.Errorf("failed to set admin status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
