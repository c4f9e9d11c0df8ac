package models

import "time"

// Unit is a learning unit owned by a student.
type Unit struct {
	ID         string    `db:"id" json:"id"`
	StudentUID string    `db:"student_uid" json:"student_uid"`
	Title      string    `db:"title" json:"title"`
	Subject    string    `db:"subject" json:"subject"`
	Progress   int       `db:"progress" json:"progress"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
