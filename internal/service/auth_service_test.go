package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type authStudentMock struct {
	students map[string]models.StudentRecord
}

func (m *authStudentMock) FindByUID(ctx context.Context, uid string) (*models.StudentRecord, error) {
	if s, ok := m.students[uid]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type authParentMock struct {
	parents map[string]models.ParentRecord
}

func (m *authParentMock) FindByUID(ctx context.Context, uid string) (*models.ParentRecord, error) {
	if p, ok := m.parents[uid]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

type authAdminMock struct {
	byUID   map[string]models.AdminRecord
	byEmail map[string]models.AdminRecord
}

func (m *authAdminMock) FindByUID(ctx context.Context, uid string) (*models.AdminRecord, error) {
	if a, ok := m.byUID[uid]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authAdminMock) FindByEmail(ctx context.Context, email string) (*models.AdminRecord, error) {
	if a, ok := m.byEmail[email]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

type stubVerifier struct {
	subject string
	err     error
}

func (v *stubVerifier) VerifySubject(ctx context.Context, idToken string) (string, error) {
	if v.err != nil {
		return "", v.err
	}
	return v.subject, nil
}

func newAuthFixture(verifier IDTokenVerifier) (*AuthService, *authStudentMock, *authAdminMock) {
	students := &authStudentMock{students: map[string]models.StudentRecord{
		"stu-active": {UID: "stu-active", ApprovalStatus: models.ApprovalApproved, AccountStatus: models.AccountActive},
		"stu-off":    {UID: "stu-off", ApprovalStatus: models.ApprovalApproved, AccountStatus: models.AccountInactive},
	}}
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	hashStr := string(hash)
	email := "admin@example.com"
	admins := &authAdminMock{
		byUID: map[string]models.AdminRecord{},
		byEmail: map[string]models.AdminRecord{
			email: {ID: "adm-1", Email: &email, PasswordHash: &hashStr, Role: models.RoleAdmin, ApprovalStatus: models.ApprovalApproved},
		},
	}
	svc := NewAuthService(students, &authParentMock{parents: map[string]models.ParentRecord{
		"par-1": {UID: "par-1"},
	}}, admins, verifier, nil, nil, AuthConfig{
		SessionSecret:     "test-secret",
		SessionExpiration: time.Hour,
		Issuer:            "edu-portal-api",
	})
	return svc, students, admins
}

func TestLoginWithProviderStudent(t *testing.T) {
	svc, _, _ := newAuthFixture(&stubVerifier{subject: "stu-active"})

	result, err := svc.LoginWithProvider(context.Background(), models.GoogleLoginRequest{IDToken: "tok"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, models.RoleStudent, result.Principal.Role)
	assert.False(t, result.NeedsSignup)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "stu-active", claims.UID)
	assert.Equal(t, models.ApprovalApproved, claims.Status)
}

func TestLoginWithProviderInactiveStudent(t *testing.T) {
	svc, _, _ := newAuthFixture(&stubVerifier{subject: "stu-off"})

	_, err := svc.LoginWithProvider(context.Background(), models.GoogleLoginRequest{IDToken: "tok"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrAccountInactive))
}

func TestLoginWithProviderUnknownUID(t *testing.T) {
	svc, _, _ := newAuthFixture(&stubVerifier{subject: "nobody"})

	result, err := svc.LoginWithProvider(context.Background(), models.GoogleLoginRequest{IDToken: "tok"})
	require.NoError(t, err)
	assert.True(t, result.NeedsSignup)
	assert.Empty(t, result.AccessToken)
	assert.Equal(t, "nobody", result.Principal.UID)
}

func TestLoginWithProviderRejectedToken(t *testing.T) {
	svc, _, _ := newAuthFixture(&stubVerifier{err: errors.New("bad signature")})

	_, err := svc.LoginWithProvider(context.Background(), models.GoogleLoginRequest{IDToken: "tok"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}

func TestLoginAdmin(t *testing.T) {
	svc, _, _ := newAuthFixture(&stubVerifier{})

	result, err := svc.LoginAdmin(context.Background(), models.AdminLoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "adm-1", result.Principal.UID)
	assert.Equal(t, models.RoleAdmin, result.Principal.Role)
}

func TestLoginAdminWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(&stubVerifier{})

	_, err := svc.LoginAdmin(context.Background(), models.AdminLoginRequest{Email: "admin@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))

	_, err = svc.LoginAdmin(context.Background(), models.AdminLoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrInvalidCredentials))
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc, _, _ := newAuthFixture(&stubVerifier{})

	other := NewAuthService(nil, nil, nil, nil, nil, nil, AuthConfig{
		SessionSecret:     "other-secret",
		SessionExpiration: time.Hour,
	})
	result, err := other.IssueSessionFor(models.Principal{UID: "stu-1", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(result.AccessToken)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized))
}
