package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/export"
)

type adminStudentRepo interface {
	FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, int, error)
}

type adminDirectoryListRepo interface {
	List(ctx context.Context, filter models.AdminFilter) ([]models.AdminRecord, int, error)
}

// RosterExporter renders roster datasets. A nil value disables the export
// surface; callers must pass a true nil interface, never a typed nil pointer.
type RosterExporter interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// AdminService serves the admin area reads: student roster, admin listings
// and the roster export. Gate middleware has already re-resolved the caller
// against the admin directory before any of these run.
type AdminService struct {
	students adminStudentRepo
	admins   adminDirectoryListRepo
	exporter RosterExporter
	logger   *zap.Logger
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(students adminStudentRepo, admins adminDirectoryListRepo, exporter RosterExporter, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{students: students, admins: admins, exporter: exporter, logger: logger}
}

// ListStudents returns the roster page for the given filter.
func (s *AdminService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return students, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// GetStudent returns one student record by uid.
func (s *AdminService) GetStudent(ctx context.Context, uid string) (*models.StudentRecord, error) {
	student, err := s.students.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// ListAdmins returns the admin directory page. Only reachable through the
// super-admin sub-area.
func (s *AdminService) ListAdmins(ctx context.Context, filter models.AdminFilter) ([]models.AdminRecord, *models.Pagination, error) {
	admins, total, err := s.admins.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	return admins, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// ExportRoster renders the filtered student roster as a PDF.
func (s *AdminService) ExportRoster(ctx context.Context, filter models.StudentFilter) ([]byte, error) {
	if s.exporter == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "roster export is disabled")
	}

	filter.Page = 1
	filter.PageSize = 100
	students, _, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	data := export.Dataset{
		Headers: []string{"Name", "School", "Grade", "Approval", "Account"},
		Rows:    make([]map[string]string, 0, len(students)),
	}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"Name":     st.FullName,
			"School":   st.SchoolName,
			"Grade":    strconv.Itoa(st.Grade),
			"Approval": string(st.ApprovalStatus),
			"Account":  string(st.AccountStatus),
		})
	}

	pdf, err := s.exporter.Render(data, "Student Roster")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return pdf, nil
}
