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

// AdminRepository provides database access to the admin directory.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, uid, email, password_hash, full_name, role, approval_status, created_at, updated_at`

// Approved-admin floor: every SUPER_ADMIN counts, plus every APPROVED ADMIN.
const approvedAdminCondition = `(role = 'SUPER_ADMIN' OR approval_status = 'APPROVED')`

// FindByUID returns an admin by identity-provider uid.
func (r *AdminRepository) FindByUID(ctx context.Context, uid string) (*models.AdminRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE uid = $1 LIMIT 1`, adminColumns)
	var admin models.AdminRecord
	if err := r.db.GetContext(ctx, &admin, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by uid: %w", err)
	}
	return &admin, nil
}

// FindByID returns an admin by synthetic id.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.AdminRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE id = $1 LIMIT 1`, adminColumns)
	var admin models.AdminRecord
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return &admin, nil
}

// FindByEmail returns a credential admin by email address.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE email = $1 LIMIT 1`, adminColumns)
	var admin models.AdminRecord
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return &admin, nil
}

// FindByPrincipalUID resolves an admin by either directory key: the provider
// uid for OAuth admins or the synthetic id embedded in credential sessions.
func (r *AdminRepository) FindByPrincipalUID(ctx context.Context, uid string) (*models.AdminRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE uid = $1 OR id = $1 LIMIT 1`, adminColumns)
	var admin models.AdminRecord
	if err := r.db.GetContext(ctx, &admin, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by principal uid: %w", err)
	}
	return &admin, nil
}

// Create inserts a new admin directory record.
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminRecord) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	const query = `INSERT INTO admins (id, uid, email, password_hash, full_name, role, approval_status, created_at, updated_at)
		VALUES (:id, :uid, :email, :password_hash, :full_name, :role, :approval_status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// CountApproved returns how many admins currently count toward the floor.
func (r *AdminRepository) CountApproved(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM admins WHERE %s`, approvedAdminCondition)
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count approved admins: %w", err)
	}
	return count, nil
}

// Withdraw deletes an admin only while more than one floor-counting admin
// exists. The count check and the delete are one statement so they commit
// atomically; zero rows affected means the floor blocked the delete or the
// admin does not exist. The subquery reads the pre-delete snapshot.
func (r *AdminRepository) Withdraw(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM admins WHERE id = $1
		AND (SELECT COUNT(*) FROM admins WHERE %s) > 1`, approvedAdminCondition)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("withdraw admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("withdraw admin rows: %w", err)
	}
	return n > 0, nil
}

// UpdateApproval moves an admin between PENDING and APPROVED.
func (r *AdminRepository) UpdateApproval(ctx context.Context, id string, status models.ApprovalStatus) error {
	const query = `UPDATE admins SET approval_status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update admin approval: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns admins matching the filter with a total count.
func (r *AdminRepository) List(ctx context.Context, filter models.AdminFilter) ([]models.AdminRecord, int, error) {
	baseQuery := `FROM admins WHERE 1=1`
	var args []interface{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		baseQuery += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.ApprovalStatus != nil {
		args = append(args, *filter.ApprovalStatus)
		baseQuery += fmt.Sprintf(" AND approval_status = $%d", len(args))
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", adminColumns, baseQuery, pageSize, offset)

	var admins []models.AdminRecord
	if err := r.db.SelectContext(ctx, &admins, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}

	return admins, total, nil
}
