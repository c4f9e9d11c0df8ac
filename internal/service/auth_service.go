package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type authStudentDirectory interface {
	FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error)
}

type authParentDirectory interface {
	FindByUID(ctx context.Context, uid string) (*models.ParentRecord, error)
}

type authAdminDirectory interface {
	FindByUID(ctx context.Context, uid string) (*models.AdminRecord, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminRecord, error)
}

// IDTokenVerifier abstracts the delegated identity provider. The production
// implementation validates a Google ID token and returns its subject.
type IDTokenVerifier interface {
	VerifySubject(ctx context.Context, idToken string) (string, error)
}

// GoogleVerifier verifies Google-issued ID tokens against the configured
// client id.
type GoogleVerifier struct {
	ClientID string
}

// VerifySubject validates the token signature and audience and returns the
// provider subject.
func (g *GoogleVerifier) VerifySubject(_ context.Context, idToken string) (string, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.ClientID}); err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return "", fmt.Errorf("decode id token: %w", err)
	}
	return claimSet.Sub, nil
}

// AuthConfig defines configuration for session issuance.
type AuthConfig struct {
	SessionSecret     string
	SessionExpiration time.Duration
	Issuer            string
}

// AuthService resolves identities and issues session tokens. Two identity
// sources map onto one Principal shape: delegated identity-provider login
// (uid = provider subject) and privileged credential login (uid = synthetic
// admin id, role embedded at login time).
type AuthService struct {
	students  authStudentDirectory
	parents   authParentDirectory
	admins    authAdminDirectory
	verifier  IDTokenVerifier
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students authStudentDirectory, parents authParentDirectory, admins authAdminDirectory, verifier IDTokenVerifier, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		students:  students,
		parents:   parents,
		admins:    admins,
		verifier:  verifier,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// VerifyIdentity validates a provider ID token and returns the subject uid.
// Signup completion re-verifies the token instead of trusting the client.
func (s *AuthService) VerifyIdentity(ctx context.Context, idToken string) (string, error) {
	uid, err := s.verifier.VerifySubject(ctx, idToken)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "identity token rejected")
	}
	return uid, nil
}

// LoginWithProvider exchanges a verified ID token for a session. The uid is
// looked up across all three directories; an unknown uid yields a
// needs-signup response instead of an error.
func (s *AuthService) LoginWithProvider(ctx context.Context, req models.GoogleLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	uid, err := s.verifier.VerifySubject(ctx, req.IDToken)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "identity token rejected")
	}

	if student, err := s.students.FindByUID(ctx, uid); err == nil {
		if student.AccountStatus == models.AccountInactive {
			// Deactivated students are rejected at authentication no matter
			// their approval state.
			return nil, appErrors.Clone(appErrors.ErrAccountInactive, "account is deactivated")
		}
		return s.issueSession(models.Principal{UID: student.UID, Role: models.RoleStudent, Status: student.ApprovalStatus})
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}

	if parent, err := s.parents.FindByUID(ctx, uid); err == nil {
		return s.issueSession(models.Principal{UID: parent.UID, Role: models.RoleParent})
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve parent")
	}

	if admin, err := s.admins.FindByUID(ctx, uid); err == nil {
		return s.issueSession(models.Principal{UID: uid, Role: admin.Role, Status: admin.ApprovalStatus})
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve admin")
	}

	return &models.LoginResponse{IssuedAt: time.Now().UTC(), NeedsSignup: true, Principal: models.Principal{UID: uid}}, nil
}

// LoginAdmin authenticates a credential admin. The synthetic admin id acts
// as the session uid and the role is embedded directly in the token.
func (s *AuthService) LoginAdmin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	admin, err := s.admins.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve admin")
	}

	if admin.PasswordHash == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	return s.issueSession(models.Principal{UID: admin.ID, Role: admin.Role, Status: admin.ApprovalStatus})
}

// ValidateToken parses and validates a session token returning the claims.
// Any failure is unauthenticated, never fatal.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SessionSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}

	return claims, nil
}

// IssueSessionFor signs a session token for an already-resolved principal.
// Registration paths use it to log the caller in right after signup.
func (s *AuthService) IssueSessionFor(principal models.Principal) (*models.LoginResponse, error) {
	return s.issueSession(principal)
}

func (s *AuthService) issueSession(principal models.Principal) (*models.LoginResponse, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.SessionExpiration)
	claims := &models.SessionClaims{
		UID:    principal.UID,
		Role:   principal.Role,
		Status: principal.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   principal.UID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SessionSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.SessionExpiration.Seconds()),
		IssuedAt:    issuedAt,
		Principal:   principal,
	}, nil
}
