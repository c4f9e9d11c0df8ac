package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type lifecycleStudentRepo interface {
	FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error)
	UpdateAccountStatus(ctx context.Context, uid string, status models.AccountStatus) error
	UpdateApprovalStatus(ctx context.Context, uid string, status models.ApprovalStatus) error
	Withdraw(ctx context.Context, uid string) error
}

type lifecycleAdminRepo interface {
	FindByPrincipalUID(ctx context.Context, uid string) (*models.AdminRecord, error)
	FindByID(ctx context.Context, id string) (*models.AdminRecord, error)
	Withdraw(ctx context.Context, id string) (bool, error)
	UpdateApproval(ctx context.Context, id string, status models.ApprovalStatus) error
}

// LifecycleService owns every account status transition. Admin-privileged
// operations re-resolve the caller against the admin directory instead of
// trusting the role carried by the session token.
type LifecycleService struct {
	students lifecycleStudentRepo
	admins   lifecycleAdminRepo
	logger   *zap.Logger
}

// NewLifecycleService constructs a LifecycleService instance.
func NewLifecycleService(students lifecycleStudentRepo, admins lifecycleAdminRepo, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{students: students, admins: admins, logger: logger}
}

func failure(err *appErrors.Error, message string) models.MutationResult {
	if message == "" {
		message = err.Message
	}
	return models.MutationResult{Success: false, Message: message, Status: err.Status}
}

// DeactivateSelf flips the caller's own account to INACTIVE. Data is kept;
// only login is blocked. Re-applying the current status is a no-op write.
func (s *LifecycleService) DeactivateSelf(ctx context.Context, caller models.Principal, targetUID string) models.MutationResult {
	if caller.Role != models.RoleStudent || caller.UID != targetUID {
		return failure(appErrors.ErrForbidden, "only the account owner may deactivate it")
	}

	if err := s.students.UpdateAccountStatus(ctx, targetUID, models.AccountInactive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "account not found")
		}
		s.logger.Error("deactivate failed", zap.String("uid", targetUID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to deactivate account")
	}

	s.logger.Info("student deactivated", zap.String("uid", targetUID))
	return models.MutationResult{Success: true, Message: "account deactivated"}
}

// ReactivateSelf flips the caller's own account back to ACTIVE.
func (s *LifecycleService) ReactivateSelf(ctx context.Context, caller models.Principal, targetUID string) models.MutationResult {
	if caller.Role != models.RoleStudent || caller.UID != targetUID {
		return failure(appErrors.ErrForbidden, "only the account owner may reactivate it")
	}

	if err := s.students.UpdateAccountStatus(ctx, targetUID, models.AccountActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "account not found")
		}
		s.logger.Error("reactivate failed", zap.String("uid", targetUID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to reactivate account")
	}

	s.logger.Info("student reactivated", zap.String("uid", targetUID))
	return models.MutationResult{Success: true, Message: "account reactivated"}
}

// WithdrawSelf deletes the caller's student record and every owned
// sub-collection.
func (s *LifecycleService) WithdrawSelf(ctx context.Context, caller models.Principal, targetUID string) models.MutationResult {
	if caller.Role != models.RoleStudent || caller.UID != targetUID {
		return failure(appErrors.ErrForbidden, "only the account owner may withdraw it")
	}

	if err := s.students.Withdraw(ctx, targetUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "account not found")
		}
		s.logger.Error("withdraw failed", zap.String("uid", targetUID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to withdraw account")
	}

	s.logger.Info("student withdrawn", zap.String("uid", targetUID))
	return models.MutationResult{Success: true, Message: "account withdrawn"}
}

// SetStudentAccountStatus is the admin-privileged deactivate/reactivate for
// any student.
func (s *LifecycleService) SetStudentAccountStatus(ctx context.Context, caller models.Principal, targetUID string, status models.AccountStatus) models.MutationResult {
	if res, ok := s.requireApprovedAdmin(ctx, caller); !ok {
		return res
	}
	if status != models.AccountActive && status != models.AccountInactive {
		return failure(appErrors.ErrValidation, "unknown account status")
	}

	if err := s.students.UpdateAccountStatus(ctx, targetUID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("account status change failed", zap.String("uid", targetUID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to update account status")
	}

	s.logger.Info("student account status changed", zap.String("uid", targetUID), zap.String("status", string(status)))
	return models.MutationResult{Success: true, Message: "account status updated"}
}

// SetStudentApproval moves a student between PENDING and APPROVED.
func (s *LifecycleService) SetStudentApproval(ctx context.Context, caller models.Principal, targetUID string, status models.ApprovalStatus) models.MutationResult {
	if res, ok := s.requireApprovedAdmin(ctx, caller); !ok {
		return res
	}
	if status != models.ApprovalPending && status != models.ApprovalApproved {
		return failure(appErrors.ErrValidation, "unknown approval status")
	}

	if err := s.students.UpdateApprovalStatus(ctx, targetUID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "student not found")
		}
		s.logger.Error("approval change failed", zap.String("uid", targetUID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to update approval status")
	}

	s.logger.Info("student approval changed", zap.String("uid", targetUID), zap.String("status", string(status)))
	return models.MutationResult{Success: true, Message: "approval status updated"}
}

// WithdrawAdmin deletes the caller's own admin record unless that would drop
// the count of approved admins below one. The floor check and the delete
// commit atomically in the repository.
func (s *LifecycleService) WithdrawAdmin(ctx context.Context, caller models.Principal, targetID string) models.MutationResult {
	if !caller.Role.IsAdminRole() || caller.UID != targetID {
		return failure(appErrors.ErrForbidden, "only the account owner may withdraw it")
	}

	admin, err := s.admins.FindByPrincipalUID(ctx, caller.UID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "admin not found")
		}
		s.logger.Error("admin lookup failed", zap.String("uid", caller.UID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to resolve admin")
	}

	deleted, err := s.admins.Withdraw(ctx, admin.ID)
	if err != nil {
		s.logger.Error("admin withdraw failed", zap.String("admin_id", admin.ID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to withdraw admin")
	}
	if !deleted {
		// The floor blocked the delete; state is unchanged.
		return failure(appErrors.ErrAdminFloor, "at least one approved admin must remain")
	}

	s.logger.Info("admin withdrawn", zap.String("admin_id", admin.ID))
	return models.MutationResult{Success: true, Message: "admin withdrawn"}
}

// UpdateAdminApproval moves an admin between PENDING and APPROVED. Only a
// SUPER_ADMIN, freshly resolved from the directory, may perform it.
func (s *LifecycleService) UpdateAdminApproval(ctx context.Context, caller models.Principal, targetID string, status models.ApprovalStatus) models.MutationResult {
	callerRecord, err := s.admins.FindByPrincipalUID(ctx, caller.UID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrForbidden, "caller is not an admin")
		}
		s.logger.Error("admin lookup failed", zap.String("uid", caller.UID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to resolve caller")
	}
	if callerRecord.Role != models.RoleSuperAdmin {
		return failure(appErrors.ErrForbidden, "super admin privileges required")
	}
	if status != models.ApprovalPending && status != models.ApprovalApproved {
		return failure(appErrors.ErrValidation, "unknown approval status")
	}

	target, err := s.admins.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "admin not found")
		}
		s.logger.Error("target admin lookup failed", zap.String("admin_id", targetID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to resolve admin")
	}

	if err := s.admins.UpdateApproval(ctx, target.ID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrNotFound, "admin not found")
		}
		s.logger.Error("admin approval change failed", zap.String("admin_id", target.ID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to update approval")
	}

	s.logger.Info("admin approval changed", zap.String("admin_id", target.ID), zap.String("status", string(status)))
	return models.MutationResult{Success: true, Message: "approval status updated"}
}

// requireApprovedAdmin re-resolves the caller from the admin directory and
// requires an APPROVED (or SUPER_ADMIN) record, never the token role alone.
func (s *LifecycleService) requireApprovedAdmin(ctx context.Context, caller models.Principal) (models.MutationResult, bool) {
	admin, err := s.admins.FindByPrincipalUID(ctx, caller.UID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return failure(appErrors.ErrForbidden, "caller is not an admin"), false
		}
		s.logger.Error("admin lookup failed", zap.String("uid", caller.UID), zap.Error(err))
		return failure(appErrors.ErrInternal, "failed to resolve caller"), false
	}
	if !admin.CountsTowardFloor() {
		return models.MutationResult{Success: false, Message: "admin approval required", Status: http.StatusForbidden}, false
	}
	return models.MutationResult{}, true
}
