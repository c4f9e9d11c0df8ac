package models

import "time"

// AssignmentStatus tracks the submission lifecycle of an assignment.
// expired and submitted are terminal; the status job never revisits them.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentOverdue   AssignmentStatus = "overdue"
	AssignmentExpired   AssignmentStatus = "expired"
	AssignmentSubmitted AssignmentStatus = "submitted"
)

// Assignment is a learning task owned by a student. DueDate is a calendar
// date; SubmissionDeadline, when set, overrides the end-of-day cutoff derived
// from DueDate.
type Assignment struct {
	ID                 string           `db:"id" json:"id"`
	StudentUID         string           `db:"student_uid" json:"student_uid"`
	UnitID             *string          `db:"unit_id" json:"unit_id,omitempty"`
	Title              string           `db:"title" json:"title"`
	DueDate            time.Time        `db:"due_date" json:"due_date"`
	SubmissionDeadline *time.Time       `db:"submission_deadline" json:"submission_deadline,omitempty"`
	SubmittedAt        *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
	Status             AssignmentStatus `db:"status" json:"status"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}
