package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// All due dates and session times are wall-clock values in the portal's home
// timezone, a fixed UTC+9 offset.
var jobLocation = time.FixedZone("UTC+9", 9*60*60)

const defaultScheduleEnd = "23:59"

type jobAssignmentRepo interface {
	ListActionable(ctx context.Context) ([]models.Assignment, error)
	UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus) error
}

type jobScheduleRepo interface {
	ListScheduled(ctx context.Context) ([]models.Schedule, error)
	UpdateStatus(ctx context.Context, id string, status models.ScheduleStatus) error
}

type jobObserver interface {
	ObserveJobRun()
	ObserveJobPass(pass string, updated int)
}

// JobReport summarises one run of the status updater.
type JobReport struct {
	AssignmentsUpdated int `json:"assignments_updated"`
	SchedulesUpdated   int `json:"schedules_updated"`
	Failures           int `json:"failures,omitempty"`
}

// StatusJobService recomputes time-derived statuses outside the request
// flow. Runs may overlap; every transition is idempotent and converges on
// the same terminal value, so last write wins.
type StatusJobService struct {
	assignments jobAssignmentRepo
	schedules   jobScheduleRepo
	metrics     jobObserver
	logger      *zap.Logger
}

// NewStatusJobService constructs a StatusJobService instance.
func NewStatusJobService(assignments jobAssignmentRepo, schedules jobScheduleRepo, metrics jobObserver, logger *zap.Logger) *StatusJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusJobService{assignments: assignments, schedules: schedules, metrics: metrics, logger: logger}
}

// Run executes the assignment pass and the schedule pass. One record's
// failure never aborts the rest of the scan.
func (s *StatusJobService) Run(ctx context.Context, now time.Time) (JobReport, error) {
	report := JobReport{}
	if s.metrics != nil {
		s.metrics.ObserveJobRun()
	}

	assignments, err := s.assignments.ListActionable(ctx)
	if err != nil {
		return report, err
	}
	for i := range assignments {
		next, ok := NextAssignmentStatus(&assignments[i], now)
		if !ok {
			continue
		}
		if err := s.assignments.UpdateStatus(ctx, assignments[i].ID, next); err != nil {
			report.Failures++
			s.logger.Warn("assignment status update failed",
				zap.String("assignment_id", assignments[i].ID), zap.Error(err))
			continue
		}
		report.AssignmentsUpdated++
	}
	if s.metrics != nil {
		s.metrics.ObserveJobPass("assignments", report.AssignmentsUpdated)
	}

	schedules, err := s.schedules.ListScheduled(ctx)
	if err != nil {
		return report, err
	}
	for i := range schedules {
		if !ScheduleEnded(&schedules[i], now) {
			continue
		}
		if err := s.schedules.UpdateStatus(ctx, schedules[i].ID, models.ScheduleCompleted); err != nil {
			report.Failures++
			s.logger.Warn("schedule status update failed",
				zap.String("schedule_id", schedules[i].ID), zap.Error(err))
			continue
		}
		report.SchedulesUpdated++
	}
	if s.metrics != nil {
		s.metrics.ObserveJobPass("schedules", report.SchedulesUpdated)
	}

	s.logger.Info("status job finished",
		zap.Int("assignments_updated", report.AssignmentsUpdated),
		zap.Int("schedules_updated", report.SchedulesUpdated),
		zap.Int("failures", report.Failures))
	return report, nil
}

// AssignmentDeadline resolves the hard cutoff for an assignment: the
// explicit submission deadline when present, otherwise 23:59:59 of the due
// date in the home timezone.
func AssignmentDeadline(a *models.Assignment) time.Time {
	if a.SubmissionDeadline != nil {
		return *a.SubmissionDeadline
	}
	y, m, d := a.DueDate.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, jobLocation)
}

// NextAssignmentStatus computes the pending→overdue→expired progression for
// one unsubmitted assignment. An overdue assignment past its deadline
// expires; a pending one first turns overdue on the day after the due date,
// or expires straight away once an explicit deadline has passed. Terminal
// states never reach this function.
func NextAssignmentStatus(a *models.Assignment, now time.Time) (models.AssignmentStatus, bool) {
	deadline := AssignmentDeadline(a)

	switch a.Status {
	case models.AssignmentOverdue:
		if !now.Before(deadline) {
			return models.AssignmentExpired, true
		}
	case models.AssignmentPending:
		if dateAfter(now, a.DueDate) {
			return models.AssignmentOverdue, true
		}
		if a.SubmissionDeadline != nil && !now.Before(deadline) {
			return models.AssignmentExpired, true
		}
	}
	return a.Status, false
}

// ScheduleEnded reports whether the session end (date + end time, default
// 23:59) has passed.
func ScheduleEnded(sc *models.Schedule, now time.Time) bool {
	endTime := sc.EndTime
	if endTime == "" {
		endTime = defaultScheduleEnd
	}
	hour, minute, ok := parseClock(endTime)
	if !ok {
		hour, minute, _ = parseClock(defaultScheduleEnd)
	}
	y, m, d := sc.Date.Date()
	end := time.Date(y, m, d, hour, minute, 0, 0, jobLocation)
	return !now.Before(end)
}

// dateAfter reports whether now's calendar date in the home timezone is
// strictly after the given due date.
func dateAfter(now time.Time, due time.Time) bool {
	local := now.In(jobLocation)
	ny, nm, nd := local.Date()
	dy, dm, dd := due.Date()
	if ny != dy {
		return ny > dy
	}
	if nm != dm {
		return nm > dm
	}
	return nd > dd
}

func parseClock(value string) (int, int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
