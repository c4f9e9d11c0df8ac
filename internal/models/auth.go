package models

import "time"

// GoogleLoginRequest carries the delegated identity-provider ID token.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// AdminLoginRequest is the privileged credential login payload.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse is returned by every login path. NeedsSignup is set when the
// verified identity is not present in any directory yet.
type LoginResponse struct {
	AccessToken string    `json:"access_token,omitempty"`
	ExpiresIn   int64     `json:"expires_in,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
	Principal   Principal `json:"principal"`
	NeedsSignup bool      `json:"needs_signup,omitempty"`
}

// StudentSignupRequest completes registration after identity-provider linkage.
type StudentSignupRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	SchoolName  string `json:"school_name" validate:"required"`
	Grade       int    `json:"grade" validate:"required,min=1,max=12"`
	ParentPhone string `json:"parent_phone" validate:"omitempty,min=9"`
}

// ParentSignupRequest completes parent registration.
type ParentSignupRequest struct {
	FullName   string   `json:"full_name" validate:"required"`
	Phone      string   `json:"phone" validate:"omitempty,min=9"`
	StudentIDs []string `json:"student_ids" validate:"omitempty,dive,required"`
}

// AdminSignupRequest registers a credential admin. SUPER_ADMIN is never
// self-service; the role field is intentionally absent.
type AdminSignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// AdminProviderSignupRequest registers an admin via the identity provider
// under the privileged flow flag.
type AdminProviderSignupRequest struct {
	IDToken  string `json:"id_token" validate:"required"`
	FullName string `json:"full_name" validate:"required"`
}
