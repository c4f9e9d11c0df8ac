package models

import "time"

// StudentRecord is a row of the student directory. UID is the identity
// provider subject; ID is the internal numeric identifier.
type StudentRecord struct {
	UID            string         `db:"uid" json:"uid"`
	ID             int64          `db:"id" json:"id"`
	FullName       string         `db:"full_name" json:"full_name"`
	SchoolName     string         `db:"school_name" json:"school_name"`
	Grade          int            `db:"grade" json:"grade"`
	ParentPhone    string         `db:"parent_phone" json:"parent_phone,omitempty"`
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approval_status"`
	AccountStatus  AccountStatus  `db:"account_status" json:"account_status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures filtering criteria for roster listings.
type StudentFilter struct {
	ApprovalStatus *ApprovalStatus
	AccountStatus  *AccountStatus
	Grade          *int
	Search         string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
