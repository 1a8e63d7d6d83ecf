package repository

import (
	"context"
	"testing"

	"brandgate/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGrantsMock(t *testing.T) (*PostgresGrantsRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresGrantsRepo(db), mock
}

func TestGetGrant(t *testing.T) {
	repo, mock := setupGrantsMock(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT user_id, tenant_id, role`).
			WithArgs(int64(1), int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "tenant_id", "role"}).
				AddRow(int64(1), int64(10), "editor"))

		g, err := repo.GetGrant(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEditor, g.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row is ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT user_id, tenant_id, role`).
			WithArgs(int64(1), int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "tenant_id", "role"}))

		_, err := repo.GetGrant(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpsertGrant(t *testing.T) {
	repo, mock := setupGrantsMock(t)
	ctx := context.Background()

	t.Run("inserts or updates", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO admin_user_tenants`).
			WithArgs(int64(1), int64(10), "admin").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpsertGrant(ctx, &domain.Grant{UserID: 1, TenantID: 10, Role: domain.RoleAdmin})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid role never reaches the db", func(t *testing.T) {
		err := repo.UpsertGrant(ctx, &domain.Grant{UserID: 1, TenantID: 10, Role: "superuser"})
		assert.Error(t, err)
	})
}

func TestDeleteGrant(t *testing.T) {
	repo, mock := setupGrantsMock(t)
	ctx := context.Background()

	t.Run("deletes", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM admin_user_tenants`).
			WithArgs(int64(1), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteGrant(ctx, 1, 10))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows means not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM admin_user_tenants`).
			WithArgs(int64(1), int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteGrant(ctx, 1, 99), ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListGrantsByUser(t *testing.T) {
	repo, mock := setupGrantsMock(t)

	mock.ExpectQuery(`SELECT user_id, tenant_id, role`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "tenant_id", "role"}).
			AddRow(int64(1), int64(10), "admin").
			AddRow(int64(1), int64(20), "viewer"))

	grants, err := repo.ListGrantsByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, domain.RoleAdmin, grants[0].Role)
	assert.Equal(t, int64(20), grants[1].TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
