package models

import "time"

// AdminRecord is a row of the admin directory. OAuth admins carry a provider
// UID; credential admins carry a synthetic id plus email and password hash.
type AdminRecord struct {
	ID             string         `db:"id" json:"id"`
	UID            *string        `db:"uid" json:"uid,omitempty"`
	Email          *string        `db:"email" json:"email,omitempty"`
	PasswordHash   *string        `db:"password_hash" json:"-"`
	FullName       string         `db:"full_name" json:"full_name"`
	Role           Role           `db:"role" json:"role"`
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approval_status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// CountsTowardFloor reports whether the record counts toward the minimum of
// one approved admin. Every SUPER_ADMIN counts regardless of status.
func (a *AdminRecord) CountsTowardFloor() bool {
	if a == nil {
		return false
	}
	return a.Role == RoleSuperAdmin || a.ApprovalStatus == ApprovalApproved
}

// AdminFilter captures filtering criteria for admin listings.
type AdminFilter struct {
	Role           *Role
	ApprovalStatus *ApprovalStatus
	Page           int
	PageSize       int
}
