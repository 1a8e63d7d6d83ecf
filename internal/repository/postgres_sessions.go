package repository

import (
	"context"
	"database/sql"
	"fmt"

	"brandgate/internal/domain"
)

// PostgresSessionsRepo admin_sessions + enduser_sessions implementation.
type PostgresSessionsRepo struct {
	db *sql.DB
}

func NewPostgresSessionsRepo(db *sql.DB) *PostgresSessionsRepo {
	return &PostgresSessionsRepo{db: db}
}

var _ SessionsRepository = (*PostgresSessionsRepo)(nil)

func (r *PostgresSessionsRepo) CreateAdminSession(ctx context.Context, s *domain.AdminSession) error {
	if s.Token == "" || s.UserID == 0 {
		return fmt.Errorf("token and user_id are required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		s.Token, s.UserID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create admin session: %w", err)
	}
	return nil
}

func (r *PostgresSessionsRepo) GetAdminSession(ctx context.Context, token string) (*domain.AdminSession, error) {
	var s domain.AdminSession
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at FROM admin_sessions WHERE token = $1`,
		token,
	).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin session: %w", err)
	}
	return &s, nil
}

func (r *PostgresSessionsRepo) DeleteAdminSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete admin session: %w", err)
	}
	return nil
}

func (r *PostgresSessionsRepo) DeleteExpiredAdminSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge admin sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *PostgresSessionsRepo) CreateEndUserSession(ctx context.Context, s *domain.EndUserSession) error {
	if s.Token == "" || s.EndUserID == 0 || s.TenantID == 0 {
		return fmt.Errorf("token, enduser_id and tenant_id are required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enduser_sessions (token, enduser_id, tenant_id, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		s.Token, s.EndUserID, s.TenantID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create enduser session: %w", err)
	}
	return nil
}

func (r *PostgresSessionsRepo) GetEndUserSession(ctx context.Context, token string) (*domain.EndUserSession, error) {
	var s domain.EndUserSession
	err := r.db.QueryRowContext(ctx,
		`SELECT token, enduser_id, tenant_id, expires_at
		   FROM enduser_sessions WHERE token = $1`,
		token,
	).Scan(&s.Token, &s.EndUserID, &s.TenantID, &s.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get enduser session: %w", err)
	}
	return &s, nil
}

func (r *PostgresSessionsRepo) DeleteEndUserSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM enduser_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete enduser session: %w", err)
	}
	return nil
}

func (r *PostgresSessionsRepo) DeleteExpiredEndUserSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM enduser_sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge enduser sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
