package models

import (
	"strconv"
	"time"

	"github.com/lib/pq"
)

// ParentRecord is a row of the parent directory. StudentIDs holds the linked
// student references (uid or numeric id rendered as text); a parent may only
// read data for students present in this list.
type ParentRecord struct {
	UID        string         `db:"uid" json:"uid"`
	FullName   string         `db:"full_name" json:"full_name"`
	Phone      string         `db:"phone" json:"phone,omitempty"`
	StudentIDs pq.StringArray `db:"student_ids" json:"student_ids"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Linked reports whether the parent is linked to the student identified by
// uid or numeric id.
func (p *ParentRecord) Linked(student *StudentRecord) bool {
	if p == nil || student == nil {
		return false
	}
	internalID := strconv.FormatInt(student.ID, 10)
	for _, ref := range p.StudentIDs {
		if ref == student.UID || ref == internalID {
			return true
		}
	}
	return false
}
