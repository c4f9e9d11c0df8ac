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

// NoteRepository provides database access to study notes.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new instance of NoteRepository.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// FindByID returns a note by id.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	const query = `SELECT id, student_uid, body, created_at, updated_at FROM notes WHERE id = $1 LIMIT 1`
	var n models.Note
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find note: %w", err)
	}
	return &n, nil
}

// ListByStudent returns every note owned by the student, newest first.
func (r *NoteRepository) ListByStudent(ctx context.Context, studentUID string) ([]models.Note, error) {
	const query = `SELECT id, student_uid, body, created_at, updated_at FROM notes WHERE student_uid = $1 ORDER BY created_at DESC`
	var notes []models.Note
	if err := r.db.SelectContext(ctx, &notes, query, studentUID); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Create inserts a new note.
func (r *NoteRepository) Create(ctx context.Context, n *models.Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	const query = `INSERT INTO notes (id, student_uid, body, created_at, updated_at) VALUES (:id, :student_uid, :body, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// Update updates the note body.
func (r *NoteRepository) Update(ctx context.Context, n *models.Note) error {
	n.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notes SET body = :body, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// Delete removes a note.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
