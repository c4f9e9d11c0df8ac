package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// AssignmentRepository provides database access to student assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, student_uid, unit_id, title, due_date, submission_deadline, submitted_at, status, created_at, updated_at`

// FindByID returns an assignment by id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE id = $1 LIMIT 1`, assignmentColumns)
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &a, nil
}

// ListByStudent returns every assignment owned by the student.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentUID string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE student_uid = $1 ORDER BY due_date ASC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, studentUID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListActionable returns every unsubmitted assignment still eligible for a
// time-derived status change. Terminal states are excluded here so the job
// never revisits them.
func (r *AssignmentRepository) ListActionable(ctx context.Context) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE submitted_at IS NULL AND status IN ('pending', 'overdue') ORDER BY due_date ASC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list actionable assignments: %w", err)
	}
	return assignments, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = models.AssignmentPending
	}

	const query = `INSERT INTO assignments (id, student_uid, unit_id, title, due_date, submission_deadline, submitted_at, status, created_at, updated_at)
		VALUES (:id, :student_uid, :unit_id, :title, :due_date, :submission_deadline, :submitted_at, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update updates the mutable fields of an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET title = :title, unit_id = :unit_id, due_date = :due_date, submission_deadline = :submission_deadline, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// UpdateStatus writes a derived status. Last write wins across overlapping
// job runs; both converge on the same terminal value.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus) error {
	const query = `UPDATE assignments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	return nil
}

// MarkSubmitted records a submission and moves the assignment to its
// terminal submitted state.
func (r *AssignmentRepository) MarkSubmitted(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE assignments SET submitted_at = $2, status = $3, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, ts, models.AssignmentSubmitted)
	if err != nil {
		return fmt.Errorf("mark assignment submitted: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
