package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type parentDirectoryRepo interface {
	FindByUID(ctx context.Context, uid string) (*models.ParentRecord, error)
	UpdateStudentLinks(ctx context.Context, uid string, studentIDs []string) error
	Delete(ctx context.Context, uid string) error
}

type parentStudentRepo interface {
	FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error)
	FindByID(ctx context.Context, id int64) (*models.StudentRecord, error)
}

type parentAssignmentRepo interface {
	ListByStudent(ctx context.Context, studentUID string) ([]models.Assignment, error)
}

type parentScheduleRepo interface {
	ListByStudent(ctx context.Context, studentUID string) ([]models.Schedule, error)
}

// ParentStudentView is the read-only slice of a linked student's data a
// parent may see.
type ParentStudentView struct {
	Student     *models.StudentRecord `json:"student"`
	Assignments []models.Assignment   `json:"assignments"`
	Schedules   []models.Schedule     `json:"schedules"`
}

// ParentService serves the parent area. A parent may only read data for
// students whose reference appears in its student_ids list; any linkage miss
// answers not-found, indistinguishable from the student not existing.
type ParentService struct {
	parents     parentDirectoryRepo
	students    parentStudentRepo
	assignments parentAssignmentRepo
	schedules   parentScheduleRepo
	logger      *zap.Logger
}

// NewParentService constructs a ParentService instance.
func NewParentService(parents parentDirectoryRepo, students parentStudentRepo, assignments parentAssignmentRepo, schedules parentScheduleRepo, logger *zap.Logger) *ParentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentService{
		parents:     parents,
		students:    students,
		assignments: assignments,
		schedules:   schedules,
		logger:      logger,
	}
}

// Profile returns the caller's parent record.
func (s *ParentService) Profile(ctx context.Context, uid string) (*models.ParentRecord, error) {
	parent, err := s.parents.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "parent not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent")
	}
	return parent, nil
}

// LinkedStudents resolves every linked reference to a student record.
// References that no longer resolve are skipped, not surfaced.
func (s *ParentService) LinkedStudents(ctx context.Context, uid string) ([]models.StudentRecord, error) {
	parent, err := s.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	students := make([]models.StudentRecord, 0, len(parent.StudentIDs))
	for _, ref := range parent.StudentIDs {
		student, err := s.resolveStudent(ctx, ref)
		if err != nil {
			if !appErrors.HasCode(err, appErrors.ErrNotFound) {
				return nil, err
			}
			continue
		}
		students = append(students, *student)
	}
	return students, nil
}

// StudentView returns the read-only view of one linked student. The linkage
// check runs after resolution so an unlinked-but-existing student and a
// missing student produce the same answer.
func (s *ParentService) StudentView(ctx context.Context, parentUID, studentRef string) (*ParentStudentView, error) {
	parent, err := s.Profile(ctx, parentUID)
	if err != nil {
		return nil, err
	}

	student, err := s.resolveStudent(ctx, studentRef)
	if err != nil {
		return nil, err
	}
	if !parent.Linked(student) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	assignments, err := s.assignments.ListByStudent(ctx, student.UID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	schedules, err := s.schedules.ListByStudent(ctx, student.UID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}

	return &ParentStudentView{Student: student, Assignments: assignments, Schedules: schedules}, nil
}

// UpdateStudentLinks replaces the caller's linked student references.
func (s *ParentService) UpdateStudentLinks(ctx context.Context, uid string, studentIDs []string) (*models.ParentRecord, error) {
	parent, err := s.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	if err := s.parents.UpdateStudentLinks(ctx, uid, studentIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student links")
	}

	parent.StudentIDs = studentIDs
	s.logger.Info("parent links updated", zap.String("uid", uid), zap.Int("links", len(studentIDs)))
	return parent, nil
}

// Withdraw deletes the caller's parent record. Linked students are untouched;
// the links only granted read access.
func (s *ParentService) Withdraw(ctx context.Context, uid string) error {
	if _, err := s.Profile(ctx, uid); err != nil {
		return err
	}
	if err := s.parents.Delete(ctx, uid); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to withdraw parent")
	}
	s.logger.Info("parent withdrawn", zap.String("uid", uid))
	return nil
}

func (s *ParentService) resolveStudent(ctx context.Context, ref string) (*models.StudentRecord, error) {
	var student *models.StudentRecord
	var err error
	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		student, err = s.students.FindByID(ctx, id)
	} else {
		student, err = s.students.FindByUID(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}
	return student, nil
}
