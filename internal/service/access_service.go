package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// Area identifies a protected route group.
type Area string

const (
	AreaStudent    Area = "student"
	AreaParent     Area = "parent"
	AreaAdmin      Area = "admin"
	AreaAdminSuper Area = "admin_super"
)

// Redirect surfaces used by gate decisions.
const (
	PathLogin           = "/login"
	PathAdminLogin      = "/admin/login"
	PathAdminLoginError = "/admin/login?error=unauthorized"
	PathPendingApproval = "/pending-approval"
	PathAdminHome       = "/admin"
)

// Decision is the outcome of evaluating the policy table for one request.
type Decision struct {
	Allow      bool
	RedirectTo string
	Rule       string
}

func allow() Decision {
	return Decision{Allow: true, Rule: "allow"}
}

func redirect(to, rule string) Decision {
	return Decision{RedirectTo: to, Rule: rule}
}

// areaPolicy is one row of the declarative authorization table:
// (area, permitted roles, login surface, admin-area flags).
type areaPolicy struct {
	loginPath string
	roles     map[models.Role]struct{}
	adminArea bool
	superOnly bool
}

var policyTable = map[Area]areaPolicy{
	AreaStudent: {
		loginPath: PathLogin,
		roles:     map[models.Role]struct{}{models.RoleStudent: {}},
	},
	AreaParent: {
		loginPath: PathLogin,
		roles:     map[models.Role]struct{}{models.RoleParent: {}},
	},
	AreaAdmin: {
		loginPath: PathAdminLogin,
		roles:     map[models.Role]struct{}{models.RoleAdmin: {}, models.RoleSuperAdmin: {}},
		adminArea: true,
	},
	AreaAdminSuper: {
		loginPath: PathAdminLogin,
		roles:     map[models.Role]struct{}{models.RoleAdmin: {}, models.RoleSuperAdmin: {}},
		adminArea: true,
		superOnly: true,
	},
}

type gateAdminDirectory interface {
	FindByPrincipalUID(ctx context.Context, uid string) (*models.AdminRecord, error)
}

type gateObserver interface {
	ObserveGateDecision(area, rule string)
}

// AccessService evaluates the authorization policy table once per request.
// Admin-area entry never trusts the role or status embedded in the token:
// the admin directory is re-read on every evaluation and any lookup failure
// fails closed to the login surface.
type AccessService struct {
	admins  gateAdminDirectory
	metrics gateObserver
	logger  *zap.Logger
}

// NewAccessService constructs an AccessService instance.
func NewAccessService(admins gateAdminDirectory, metrics gateObserver, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{admins: admins, metrics: metrics, logger: logger}
}

// Decide computes allow-or-redirect for the given principal and area.
// pathUID carries the uid path segment for ownership checks; it is empty for
// areas without one.
func (s *AccessService) Decide(ctx context.Context, principal *models.Principal, area Area, pathUID string) Decision {
	decision := s.decide(ctx, principal, area, pathUID)
	if s.metrics != nil {
		s.metrics.ObserveGateDecision(string(area), decision.Rule)
	}
	return decision
}

func (s *AccessService) decide(ctx context.Context, principal *models.Principal, area Area, pathUID string) Decision {
	policy, ok := policyTable[area]
	if !ok {
		return redirect(PathLogin, "unknown_area")
	}

	// Rule 1: no principal.
	if principal == nil || principal.UID == "" {
		return redirect(policy.loginPath, "no_session")
	}

	if policy.adminArea {
		// Rule 2: admin area entered by a non-admin-role token.
		if !principal.Role.IsAdminRole() {
			return redirect(PathAdminLoginError, "role_mismatch")
		}

		// The fresh lookup runs ahead of the pending check: the directory
		// record outranks the token's claims, so a deleted admin lands on
		// login even when the token still carries PENDING.
		admin, err := s.admins.FindByPrincipalUID(ctx, principal.UID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("admin directory lookup failed, failing closed", zap.Error(err))
			}
			// Rule 4: no matching admin record, or the directory is
			// unreachable. Treated as not-found; existence is not leaked.
			return redirect(policy.loginPath, "admin_not_found")
		}

		// Rule 3: pending admins never reach admin content.
		if admin.ApprovalStatus == models.ApprovalPending {
			return redirect(PathPendingApproval, "admin_pending")
		}

		// Rule 5: super-admin sub-area soft-downgrades plain admins.
		if policy.superOnly && admin.Role != models.RoleSuperAdmin {
			return redirect(PathAdminHome, "super_only_downgrade")
		}

		return allow()
	}

	if _, ok := policy.roles[principal.Role]; !ok {
		return redirect(policy.loginPath, "role_mismatch")
	}

	// Rule 6: unapproved students only see the pending surface.
	if area == AreaStudent && principal.Status == models.ApprovalPending {
		return redirect(PathPendingApproval, "student_pending")
	}

	// Rule 7: the parent area is keyed by uid; a mismatch is treated as
	// unauthenticated, not merely forbidden.
	if area == AreaParent && pathUID != "" && pathUID != principal.UID {
		return redirect(policy.loginPath, "parent_uid_mismatch")
	}

	return allow()
}
