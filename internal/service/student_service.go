package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type studentDirectoryRepo interface {
	FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error)
	FindByID(ctx context.Context, id int64) (*models.StudentRecord, error)
}

type studentUnitRepo interface {
	FindByID(ctx context.Context, id string) (*models.Unit, error)
	ListByStudent(ctx context.Context, studentUID string) ([]models.Unit, error)
	Create(ctx context.Context, u *models.Unit) error
	Update(ctx context.Context, u *models.Unit) error
	Delete(ctx context.Context, id string) error
}

type studentAssignmentRepo interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByStudent(ctx context.Context, studentUID string) ([]models.Assignment, error)
	Create(ctx context.Context, a *models.Assignment) error
	Update(ctx context.Context, a *models.Assignment) error
	MarkSubmitted(ctx context.Context, id string, ts time.Time) error
	Delete(ctx context.Context, id string) error
}

type studentScheduleRepo interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	ListByStudent(ctx context.Context, studentUID string) ([]models.Schedule, error)
	Create(ctx context.Context, s *models.Schedule) error
	Update(ctx context.Context, s *models.Schedule) error
	Delete(ctx context.Context, id string) error
}

type studentNoteRepo interface {
	FindByID(ctx context.Context, id string) (*models.Note, error)
	ListByStudent(ctx context.Context, studentUID string) ([]models.Note, error)
	Create(ctx context.Context, n *models.Note) error
	Update(ctx context.Context, n *models.Note) error
	Delete(ctx context.Context, id string) error
}

// StudentDashboard aggregates everything the student area renders.
type StudentDashboard struct {
	Student     *models.StudentRecord `json:"student"`
	Units       []models.Unit         `json:"units"`
	Assignments []models.Assignment   `json:"assignments"`
	Schedules   []models.Schedule     `json:"schedules"`
	Notes       []models.Note         `json:"notes"`
}

// UnitRequest is the create/update payload for a learning unit.
type UnitRequest struct {
	Title    string `json:"title" validate:"required"`
	Subject  string `json:"subject" validate:"required"`
	Progress int    `json:"progress" validate:"min=0,max=100"`
}

// AssignmentRequest is the create/update payload for an assignment.
type AssignmentRequest struct {
	Title              string     `json:"title" validate:"required"`
	UnitID             *string    `json:"unit_id"`
	DueDate            time.Time  `json:"due_date" validate:"required"`
	SubmissionDeadline *time.Time `json:"submission_deadline"`
}

// ScheduleRequest is the create/update payload for a study session.
type ScheduleRequest struct {
	Title     string    `json:"title" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	StartTime string    `json:"start_time" validate:"omitempty,len=5"`
	EndTime   string    `json:"end_time" validate:"omitempty,len=5"`
}

// NoteRequest is the create/update payload for a study note.
type NoteRequest struct {
	Body string `json:"body" validate:"required"`
}

// StudentService serves the student area: dashboard reads and CRUD over the
// learning records the student owns.
type StudentService struct {
	students    studentDirectoryRepo
	units       studentUnitRepo
	assignments studentAssignmentRepo
	schedules   studentScheduleRepo
	notes       studentNoteRepo
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students studentDirectoryRepo, units studentUnitRepo, assignments studentAssignmentRepo, schedules studentScheduleRepo, notes studentNoteRepo, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{
		students:    students,
		units:       units,
		assignments: assignments,
		schedules:   schedules,
		notes:       notes,
		validator:   validate,
		logger:      logger,
	}
}

// Resolve finds a student by either the internal numeric id or the provider
// uid, whichever the path segment carries.
func (s *StudentService) Resolve(ctx context.Context, ref string) (*models.StudentRecord, error) {
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

// Dashboard loads the full student area view for the caller's own record.
func (s *StudentService) Dashboard(ctx context.Context, caller models.Principal, ref string) (*StudentDashboard, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}

	units, err := s.units.ListByStudent(ctx, student.UID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load units")
	}
	assignments, err := s.assignments.ListByStudent(ctx, student.UID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	schedules, err := s.schedules.ListByStudent(ctx, student.UID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}
	notes, err := s.notes.ListByStudent(ctx, student.UID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notes")
	}

	return &StudentDashboard{
		Student:     student,
		Units:       units,
		Assignments: assignments,
		Schedules:   schedules,
		Notes:       notes,
	}, nil
}

// CreateUnit adds a learning unit to the caller's record.
func (s *StudentService) CreateUnit(ctx context.Context, caller models.Principal, ref string, req UnitRequest) (*models.Unit, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unit payload")
	}

	unit := &models.Unit{StudentUID: student.UID, Title: req.Title, Subject: req.Subject, Progress: req.Progress}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create unit")
	}
	return unit, nil
}

// UpdateUnit updates a unit the caller owns.
func (s *StudentService) UpdateUnit(ctx context.Context, caller models.Principal, ref, unitID string, req UnitRequest) (*models.Unit, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unit payload")
	}

	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil || unit.StudentUID != student.UID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
	}

	unit.Title = req.Title
	unit.Subject = req.Subject
	unit.Progress = req.Progress
	if err := s.units.Update(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update unit")
	}
	return unit, nil
}

// DeleteUnit removes a unit the caller owns.
func (s *StudentService) DeleteUnit(ctx context.Context, caller models.Principal, ref, unitID string) error {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return err
	}
	unit, err := s.units.FindByID(ctx, unitID)
	if err != nil || unit.StudentUID != student.UID {
		return appErrors.Clone(appErrors.ErrNotFound, "unit not found")
	}
	if err := s.units.Delete(ctx, unitID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete unit")
	}
	return nil
}

// CreateAssignment adds an assignment to the caller's record.
func (s *StudentService) CreateAssignment(ctx context.Context, caller models.Principal, ref string, req AssignmentRequest) (*models.Assignment, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignment := &models.Assignment{
		StudentUID:         student.UID,
		UnitID:             req.UnitID,
		Title:              req.Title,
		DueDate:            req.DueDate,
		SubmissionDeadline: req.SubmissionDeadline,
		Status:             models.AssignmentPending,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// UpdateAssignment updates an assignment the caller owns. Submitted and
// expired assignments are frozen.
func (s *StudentService) UpdateAssignment(ctx context.Context, caller models.Principal, ref, assignmentID string, req AssignmentRequest) (*models.Assignment, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil || assignment.StudentUID != student.UID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	if assignment.Status == models.AssignmentSubmitted || assignment.Status == models.AssignmentExpired {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment is no longer open")
	}

	assignment.Title = req.Title
	assignment.UnitID = req.UnitID
	assignment.DueDate = req.DueDate
	assignment.SubmissionDeadline = req.SubmissionDeadline
	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// SubmitAssignment records a submission, moving the assignment to its
// terminal submitted state.
func (s *StudentService) SubmitAssignment(ctx context.Context, caller models.Principal, ref, assignmentID string) (*models.Assignment, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil || assignment.StudentUID != student.UID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	if assignment.Status == models.AssignmentSubmitted || assignment.Status == models.AssignmentExpired {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment is no longer open")
	}

	now := time.Now().UTC()
	if err := s.assignments.MarkSubmitted(ctx, assignmentID, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit assignment")
	}
	assignment.SubmittedAt = &now
	assignment.Status = models.AssignmentSubmitted
	return assignment, nil
}

// DeleteAssignment removes an assignment the caller owns.
func (s *StudentService) DeleteAssignment(ctx context.Context, caller models.Principal, ref, assignmentID string) error {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return err
	}
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil || assignment.StudentUID != student.UID {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

// CreateSchedule adds a study session to the caller's record.
func (s *StudentService) CreateSchedule(ctx context.Context, caller models.Principal, ref string, req ScheduleRequest) (*models.Schedule, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	schedule := &models.Schedule{
		StudentUID: student.UID,
		Title:      req.Title,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     models.ScheduleScheduled,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return schedule, nil
}

// UpdateSchedule updates a study session the caller owns.
func (s *StudentService) UpdateSchedule(ctx context.Context, caller models.Principal, ref, scheduleID string, req ScheduleRequest) (*models.Schedule, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil || schedule.StudentUID != student.UID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}

	schedule.Title = req.Title
	schedule.Date = req.Date
	schedule.StartTime = req.StartTime
	schedule.EndTime = req.EndTime
	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	return schedule, nil
}

// DeleteSchedule removes a study session the caller owns.
func (s *StudentService) DeleteSchedule(ctx context.Context, caller models.Principal, ref, scheduleID string) error {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return err
	}
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil || schedule.StudentUID != student.UID {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	if err := s.schedules.Delete(ctx, scheduleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

// CreateNote adds a study note to the caller's record.
func (s *StudentService) CreateNote(ctx context.Context, caller models.Principal, ref string, req NoteRequest) (*models.Note, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}

	note := &models.Note{StudentUID: student.UID, Body: req.Body}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}
	return note, nil
}

// UpdateNote updates a note the caller owns.
func (s *StudentService) UpdateNote(ctx context.Context, caller models.Principal, ref, noteID string, req NoteRequest) (*models.Note, error) {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}

	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil || note.StudentUID != student.UID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "note not found")
	}

	note.Body = req.Body
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update note")
	}
	return note, nil
}

// DeleteNote removes a note the caller owns.
func (s *StudentService) DeleteNote(ctx context.Context, caller models.Principal, ref, noteID string) error {
	student, err := s.owned(ctx, caller, ref)
	if err != nil {
		return err
	}
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil || note.StudentUID != student.UID {
		return appErrors.Clone(appErrors.ErrNotFound, "note not found")
	}
	if err := s.notes.Delete(ctx, noteID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete note")
	}
	return nil
}

// owned resolves the path reference and requires the caller to be the record
// owner. An ownership miss reads as not-found, never as forbidden.
func (s *StudentService) owned(ctx context.Context, caller models.Principal, ref string) (*models.StudentRecord, error) {
	student, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleStudent || caller.UID != student.UID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}
