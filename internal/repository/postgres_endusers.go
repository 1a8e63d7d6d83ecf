package repository

import (
	"context"
	"database/sql"
	"fmt"

	"brandgate/internal/domain"
)

// PostgresEndUsersRepo endusers table implementation.
type PostgresEndUsersRepo struct {
	db *sql.DB
}

func NewPostgresEndUsersRepo(db *sql.DB) *PostgresEndUsersRepo {
	return &PostgresEndUsersRepo{db: db}
}

var _ EndUsersRepository = (*PostgresEndUsersRepo)(nil)

const enduserColumns = `enduser_id, tenant_id, email, COALESCE(name, ''),
       password_hash, is_active, email_verified_at,
       COALESCE(verify_token, ''), verify_expires_at`

func scanEndUser(row *sql.Row) (*domain.EndUser, error) {
	var u domain.EndUser
	var verifiedAt, verifyExpires sql.NullTime
	err := row.Scan(
		&u.ID, &u.TenantID, &u.Email, &u.Name,
		&u.PasswordHash, &u.IsActive, &verifiedAt,
		&u.VerifyToken, &verifyExpires,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan enduser: %w", err)
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		u.EmailVerifiedAt = &t
	}
	if verifyExpires.Valid {
		t := verifyExpires.Time
		u.VerifyExpiresAt = &t
	}
	return &u, nil
}

func (r *PostgresEndUsersRepo) GetEndUser(ctx context.Context, enduserID int64) (*domain.EndUser, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+enduserColumns+` FROM endusers WHERE enduser_id = $1`, enduserID)
	return scanEndUser(row)
}

func (r *PostgresEndUsersRepo) GetEndUserByEmail(ctx context.Context, tenantID int64, email string) (*domain.EndUser, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+enduserColumns+` FROM endusers
		  WHERE tenant_id = $1 AND lower(email) = lower($2)`,
		tenantID, email)
	return scanEndUser(row)
}

func (r *PostgresEndUsersRepo) CreateEndUser(ctx context.Context, u *domain.EndUser) (int64, error) {
	if u.TenantID == 0 || u.Email == "" || u.PasswordHash == "" {
		return 0, fmt.Errorf("tenant_id, email and password_hash are required")
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO endusers (tenant_id, email, name, password_hash, is_active,
		                       verify_token, verify_expires_at)
		 VALUES ($1, lower($2), $3, $4, $5, NULLIF($6, ''), $7)
		 RETURNING enduser_id`,
		u.TenantID, u.Email, u.Name, u.PasswordHash, u.IsActive,
		u.VerifyToken, u.VerifyExpiresAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create enduser: %w", err)
	}
	return id, nil
}

func (r *PostgresEndUsersRepo) GetEndUserByVerifyToken(ctx context.Context, token string) (*domain.EndUser, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+enduserColumns+` FROM endusers WHERE verify_token = $1`, token)
	return scanEndUser(row)
}

func (r *PostgresEndUsersRepo) MarkEmailVerified(ctx context.Context, enduserID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE endusers
		    SET email_verified_at = NOW(), verify_token = NULL, verify_expires_at = NULL
		  WHERE enduser_id = $1`,
		enduserID)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
