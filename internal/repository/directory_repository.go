package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// DirectoryRepository answers cross-directory identity questions. A single
// uid may resolve to at most one of the three directories; every
// registration path consults this lookup before creating a record.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository creates a new instance of DirectoryRepository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// RoleOf returns the role the uid is registered under, or sql.ErrNoRows when
// the uid is unknown to every directory.
func (r *DirectoryRepository) RoleOf(ctx context.Context, uid string) (models.Role, error) {
	const query = `
		SELECT 'STUDENT' AS role FROM students WHERE uid = $1
		UNION ALL
		SELECT 'PARENT' FROM parents WHERE uid = $1
		UNION ALL
		SELECT role FROM admins WHERE uid = $1 OR id = $1
		LIMIT 1`
	var role models.Role
	if err := r.db.GetContext(ctx, &role, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("resolve uid role: %w", err)
	}
	return role, nil
}
