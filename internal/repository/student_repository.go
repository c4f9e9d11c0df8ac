package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// StudentRepository provides database access to the student directory and
// its owned sub-collections.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `uid, id, full_name, school_name, grade, parent_phone, approval_status, account_status, created_at, updated_at`

// FindByUID returns a student by identity-provider uid.
func (r *StudentRepository) FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE uid = $1 LIMIT 1`, studentColumns)
	var student models.StudentRecord
	if err := r.db.GetContext(ctx, &student, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by uid: %w", err)
	}
	return &student, nil
}

// FindByID returns a student by internal numeric id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1 LIMIT 1`, studentColumns)
	var student models.StudentRecord
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// Create inserts a new student directory record.
func (r *StudentRepository) Create(ctx context.Context, student *models.StudentRecord) error {
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	const query = `INSERT INTO students (uid, full_name, school_name, grade, parent_phone, approval_status, account_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		student.UID, student.FullName, student.SchoolName, student.Grade, student.ParentPhone,
		student.ApprovalStatus, student.AccountStatus, student.CreatedAt, student.UpdatedAt,
	).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// UpdateAccountStatus flips the login-block flag. Re-applying the current
// status is a plain no-op write.
func (r *StudentRepository) UpdateAccountStatus(ctx context.Context, uid string, status models.AccountStatus) error {
	const query = `UPDATE students SET account_status = $2, updated_at = $3 WHERE uid = $1`
	res, err := r.db.ExecContext(ctx, query, uid, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update student account status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateApprovalStatus moves a student between PENDING and APPROVED.
func (r *StudentRepository) UpdateApprovalStatus(ctx context.Context, uid string, status models.ApprovalStatus) error {
	const query = `UPDATE students SET approval_status = $2, updated_at = $3 WHERE uid = $1`
	res, err := r.db.ExecContext(ctx, query, uid, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update student approval status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Withdraw deletes a student and every owned sub-collection in one
// transaction. The sub-collections are owned exclusively by the student.
func (r *StudentRepository) Withdraw(ctx context.Context, uid string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin withdraw: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"notes", "schedules", "assignments", "units"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE student_uid = $1`, table)
		if _, err := tx.ExecContext(ctx, query, uid); err != nil {
			return fmt.Errorf("delete student %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit withdraw: %w", err)
	}
	return nil
}

// List returns students matching the filter with a total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, int, error) {
	baseQuery := `FROM students WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ApprovalStatus != nil {
		conditions = append(conditions, fmt.Sprintf("approval_status = $%d", len(args)+1))
		args = append(args, *filter.ApprovalStatus)
	}
	if filter.AccountStatus != nil {
		conditions = append(conditions, fmt.Sprintf("account_status = $%d", len(args)+1))
		args = append(args, *filter.AccountStatus)
	}
	if filter.Grade != nil {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", len(args)+1))
		args = append(args, *filter.Grade)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(school_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"full_name":  true,
		"grade":      true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var students []models.StudentRecord
	if err := r.db.SelectContext(ctx, &students, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	return students, total, nil
}
