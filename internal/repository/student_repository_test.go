package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"uid", "id", "full_name", "school_name", "grade", "parent_phone", "approval_status", "account_status", "created_at", "updated_at"})
}

func TestStudentFindByUID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT uid, id, full_name, school_name, grade, parent_phone, approval_status, account_status, created_at, updated_at FROM students WHERE uid = $1 LIMIT 1`)).
		WithArgs("stu-1").
		WillReturnRows(studentRows().AddRow("stu-1", 7, "Kim Jiwoo", "Seoul High", 2, "", "APPROVED", "ACTIVE", now, now))

	student, err := repo.FindByUID(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), student.ID)
	assert.Equal(t, models.AccountActive, student.AccountStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCreateReturnsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO students (uid, full_name, school_name, grade, parent_phone, approval_status, account_status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`)).
		WithArgs("stu-new", "Kim Jiwoo", "Seoul High", 2, "", models.ApprovalPending, models.AccountActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	student := &models.StudentRecord{
		UID:            "stu-new",
		FullName:       "Kim Jiwoo",
		SchoolName:     "Seoul High",
		Grade:          2,
		ApprovalStatus: models.ApprovalPending,
		AccountStatus:  models.AccountActive,
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(11), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentUpdateAccountStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE students SET account_status = $2, updated_at = $3 WHERE uid = $1`)).
		WithArgs("missing", models.AccountInactive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAccountStatus(context.Background(), "missing", models.AccountInactive)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentWithdrawDeletesOwnedData(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{"notes", "schedules", "assignments", "units"} {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ` + table + ` WHERE student_uid = $1`)).
			WithArgs("stu-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
	}
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM students WHERE uid = $1`)).
		WithArgs("stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Withdraw(context.Background(), "stu-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentWithdrawMissingRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{"notes", "schedules", "assignments", "units"} {
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM ` + table + ` WHERE student_uid = $1`)).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM students WHERE uid = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Withdraw(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	pending := models.ApprovalPending
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT uid, id, full_name, school_name, grade, parent_phone, approval_status, account_status, created_at, updated_at FROM students WHERE 1=1 AND approval_status = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0`)).
		WithArgs(pending).
		WillReturnRows(studentRows().AddRow("stu-1", 7, "Kim Jiwoo", "Seoul High", 2, "", "PENDING", "ACTIVE", now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM students WHERE 1=1 AND approval_status = $1`)).
		WithArgs(pending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{ApprovalStatus: &pending})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
