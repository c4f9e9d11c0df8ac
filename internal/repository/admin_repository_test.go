package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func adminRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "uid", "email", "password_hash", "full_name", "role", "approval_status", "created_at", "updated_at"})
}

func TestAdminFindByPrincipalUID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, uid, email, password_hash, full_name, role, approval_status, created_at, updated_at FROM admins WHERE uid = $1 OR id = $1 LIMIT 1`)).
		WithArgs("adm-1").
		WillReturnRows(adminRows().AddRow("adm-1", nil, "a@example.com", "hash", "Park Admin", "ADMIN", "APPROVED", now, now))

	admin, err := repo.FindByPrincipalUID(context.Background(), "adm-1")
	require.NoError(t, err)
	assert.Equal(t, "adm-1", admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminFindByPrincipalUIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, uid, email, password_hash, full_name, role, approval_status, created_at, updated_at FROM admins WHERE uid = $1 OR id = $1 LIMIT 1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByPrincipalUID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminWithdrawFloorAllows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM admins WHERE id = $1
			AND (SELECT COUNT(*) FROM admins WHERE (role = 'SUPER_ADMIN' OR approval_status = 'APPROVED')) > 1`)).
		WithArgs("adm-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Withdraw(context.Background(), "adm-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminWithdrawFloorBlocks(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM admins WHERE id = $1
			AND (SELECT COUNT(*) FROM admins WHERE (role = 'SUPER_ADMIN' OR approval_status = 'APPROVED')) > 1`)).
		WithArgs("last-admin").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Withdraw(context.Background(), "last-admin")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCountApproved(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM admins WHERE (role = 'SUPER_ADMIN' OR approval_status = 'APPROVED')`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountApproved(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateApprovalNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE admins SET approval_status = $2, updated_at = $3 WHERE id = $1`)).
		WithArgs("missing", models.ApprovalApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateApproval(context.Background(), "missing", models.ApprovalApproved)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
