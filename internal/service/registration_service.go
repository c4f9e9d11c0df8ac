package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type registrationDirectory interface {
	RoleOf(ctx context.Context, uid string) (models.Role, error)
}

type registrationStudentRepo interface {
	Create(ctx context.Context, student *models.StudentRecord) error
}

type registrationParentRepo interface {
	Create(ctx context.Context, parent *models.ParentRecord) error
}

type registrationAdminRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminRecord, error)
	Create(ctx context.Context, admin *models.AdminRecord) error
}

// RegistrationService creates directory records on signup completion. Every
// path runs the cross-directory uniqueness check first: one uid may resolve
// to at most one of student, parent or admin.
type RegistrationService struct {
	directory          registrationDirectory
	students           registrationStudentRepo
	parents            registrationParentRepo
	admins             registrationAdminRepo
	validator          *validator.Validate
	logger             *zap.Logger
	adminSignupEnabled bool
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(directory registrationDirectory, students registrationStudentRepo, parents registrationParentRepo, admins registrationAdminRepo, validate *validator.Validate, logger *zap.Logger, adminSignupEnabled bool) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RegistrationService{
		directory:          directory,
		students:           students,
		parents:            parents,
		admins:             admins,
		validator:          validate,
		logger:             logger,
		adminSignupEnabled: adminSignupEnabled,
	}
}

// CompleteStudentSignup creates a student record after identity-provider
// linkage. New students start PENDING approval with an ACTIVE account.
func (s *RegistrationService) CompleteStudentSignup(ctx context.Context, uid string, req models.StudentSignupRequest) (*models.StudentRecord, error) {
	if uid == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing identity")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}
	if err := s.ensureUnregistered(ctx, uid); err != nil {
		return nil, err
	}

	student := &models.StudentRecord{
		UID:            uid,
		FullName:       req.FullName,
		SchoolName:     req.SchoolName,
		Grade:          req.Grade,
		ParentPhone:    req.ParentPhone,
		ApprovalStatus: models.ApprovalPending,
		AccountStatus:  models.AccountActive,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student registered", zap.String("uid", uid))
	return student, nil
}

// CompleteParentSignup creates a parent record with its read-only student
// links.
func (s *RegistrationService) CompleteParentSignup(ctx context.Context, uid string, req models.ParentSignupRequest) (*models.ParentRecord, error) {
	if uid == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing identity")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}
	if err := s.ensureUnregistered(ctx, uid); err != nil {
		return nil, err
	}

	parent := &models.ParentRecord{
		UID:        uid,
		FullName:   req.FullName,
		Phone:      req.Phone,
		StudentIDs: req.StudentIDs,
	}
	if err := s.parents.Create(ctx, parent); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create parent")
	}

	s.logger.Info("parent registered", zap.String("uid", uid))
	return parent, nil
}

// RegisterAdminCredential creates a PENDING credential admin. SUPER_ADMIN is
// seeded externally and never created through this surface.
func (s *RegistrationService) RegisterAdminCredential(ctx context.Context, req models.AdminSignupRequest) (*models.AdminRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	if _, err := s.admins.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrUIDTaken, "an admin already exists for this email")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admin email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	hashStr := string(hash)
	admin := &models.AdminRecord{
		Email:          &req.Email,
		PasswordHash:   &hashStr,
		FullName:       req.FullName,
		Role:           models.RoleAdmin,
		ApprovalStatus: models.ApprovalPending,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	s.logger.Info("admin registered", zap.String("admin_id", admin.ID))
	return admin, nil
}

// RegisterAdminWithProvider creates a PENDING admin from a verified provider
// identity. Only available while the privileged signup flow flag is on.
func (s *RegistrationService) RegisterAdminWithProvider(ctx context.Context, uid, fullName string) (*models.AdminRecord, error) {
	if !s.adminSignupEnabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin signup is disabled")
	}
	if uid == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing identity")
	}
	if err := s.ensureUnregistered(ctx, uid); err != nil {
		return nil, err
	}

	admin := &models.AdminRecord{
		UID:            &uid,
		FullName:       fullName,
		Role:           models.RoleAdmin,
		ApprovalStatus: models.ApprovalPending,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	s.logger.Info("admin registered via provider", zap.String("uid", uid))
	return admin, nil
}

func (s *RegistrationService) ensureUnregistered(ctx context.Context, uid string) error {
	if _, err := s.directory.RoleOf(ctx, uid); err == nil {
		return appErrors.Clone(appErrors.ErrUIDTaken, "an account already exists for this identity")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check identity")
	}
	return nil
}
