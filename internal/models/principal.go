package models

import "github.com/golang-jwt/jwt/v5"

// Role identifies which directory a principal belongs to.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleParent     Role = "PARENT"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsAdminRole reports whether the role may enter the admin area at all.
func (r Role) IsAdminRole() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// ApprovalStatus gates whether an account may use the system.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
)

// AccountStatus is the independent login-block flag for students.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

// Principal is the resolved caller identity for the current request. It is
// derived from the session token on every request and never persisted.
type Principal struct {
	UID    string         `json:"uid"`
	Role   Role           `json:"role"`
	Status ApprovalStatus `json:"status,omitempty"`
}

// SessionClaims is the JWT payload carried by the session token.
type SessionClaims struct {
	UID    string         `json:"uid"`
	Role   Role           `json:"role"`
	Status ApprovalStatus `json:"status,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the per-request identity.
func (c *SessionClaims) Principal() Principal {
	return Principal{UID: c.UID, Role: c.Role, Status: c.Status}
}
