package models

import "time"

// ScheduleStatus tracks whether a study session has finished.
type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleCompleted ScheduleStatus = "completed"
)

// Schedule is a planned study session owned by a student. StartTime and
// EndTime are HH:MM wall-clock strings on Date.
type Schedule struct {
	ID         string         `db:"id" json:"id"`
	StudentUID string         `db:"student_uid" json:"student_uid"`
	Title      string         `db:"title" json:"title"`
	Date       time.Time      `db:"date" json:"date"`
	StartTime  string         `db:"start_time" json:"start_time,omitempty"`
	EndTime    string         `db:"end_time" json:"end_time,omitempty"`
	Status     ScheduleStatus `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}
