package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// ParentRepository provides database access to the parent directory.
type ParentRepository struct {
	db *sqlx.DB
}

// NewParentRepository creates a new instance of ParentRepository.
func NewParentRepository(db *sqlx.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// FindByUID returns a parent by identity-provider uid.
func (r *ParentRepository) FindByUID(ctx context.Context, uid string) (*models.ParentRecord, error) {
	const query = `SELECT uid, full_name, phone, student_ids, created_at, updated_at FROM parents WHERE uid = $1 LIMIT 1`
	var parent models.ParentRecord
	if err := r.db.GetContext(ctx, &parent, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find parent by uid: %w", err)
	}
	return &parent, nil
}

// Create inserts a new parent directory record.
func (r *ParentRepository) Create(ctx context.Context, parent *models.ParentRecord) error {
	now := time.Now().UTC()
	if parent.CreatedAt.IsZero() {
		parent.CreatedAt = now
	}
	parent.UpdatedAt = now
	if parent.StudentIDs == nil {
		parent.StudentIDs = pq.StringArray{}
	}

	const query = `INSERT INTO parents (uid, full_name, phone, student_ids, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, parent.UID, parent.FullName, parent.Phone, parent.StudentIDs, parent.CreatedAt, parent.UpdatedAt); err != nil {
		return fmt.Errorf("create parent: %w", err)
	}
	return nil
}

// UpdateStudentLinks replaces the linked student reference list.
func (r *ParentRepository) UpdateStudentLinks(ctx context.Context, uid string, studentIDs []string) error {
	const query = `UPDATE parents SET student_ids = $2, updated_at = $3 WHERE uid = $1`
	res, err := r.db.ExecContext(ctx, query, uid, pq.StringArray(studentIDs), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update parent student links: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a parent directory record.
func (r *ParentRepository) Delete(ctx context.Context, uid string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parents WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete parent: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
