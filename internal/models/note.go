package models

import "time"

// Note is a free-form study note owned by a student.
type Note struct {
	ID         string    `db:"id" json:"id"`
	StudentUID string    `db:"student_uid" json:"student_uid"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
