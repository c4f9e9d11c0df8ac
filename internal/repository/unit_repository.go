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

// UnitRepository provides database access to learning units.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository creates a new instance of UnitRepository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// FindByID returns a unit by id.
func (r *UnitRepository) FindByID(ctx context.Context, id string) (*models.Unit, error) {
	const query = `SELECT id, student_uid, title, subject, progress, created_at, updated_at FROM units WHERE id = $1 LIMIT 1`
	var u models.Unit
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find unit: %w", err)
	}
	return &u, nil
}

// ListByStudent returns every unit owned by the student.
func (r *UnitRepository) ListByStudent(ctx context.Context, studentUID string) ([]models.Unit, error) {
	const query = `SELECT id, student_uid, title, subject, progress, created_at, updated_at FROM units WHERE student_uid = $1 ORDER BY created_at ASC`
	var units []models.Unit
	if err := r.db.SelectContext(ctx, &units, query, studentUID); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// Create inserts a new unit.
func (r *UnitRepository) Create(ctx context.Context, u *models.Unit) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	const query = `INSERT INTO units (id, student_uid, title, subject, progress, created_at, updated_at)
		VALUES (:id, :student_uid, :title, :subject, :progress, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// Update updates the mutable fields of a unit.
func (r *UnitRepository) Update(ctx context.Context, u *models.Unit) error {
	u.UpdatedAt = time.Now().UTC()
	const query = `UPDATE units SET title = :title, subject = :subject, progress = :progress, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

// Delete removes a unit.
func (r *UnitRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
