package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

type regDirectoryMock struct {
	roles map[string]models.Role
}

func (m *regDirectoryMock) RoleOf(ctx context.Context, uid string) (models.Role, error) {
	if role, ok := m.roles[uid]; ok {
		return role, nil
	}
	return "", sql.ErrNoRows
}

type regStudentMock struct {
	created []models.StudentRecord
}

func (m *regStudentMock) Create(ctx context.Context, student *models.StudentRecord) error {
	m.created = append(m.created, *student)
	return nil
}

type regParentMock struct {
	created []models.ParentRecord
}

func (m *regParentMock) Create(ctx context.Context, parent *models.ParentRecord) error {
	m.created = append(m.created, *parent)
	return nil
}

type regAdminMock struct {
	byEmail map[string]models.AdminRecord
	created []models.AdminRecord
}

func (m *regAdminMock) FindByEmail(ctx context.Context, email string) (*models.AdminRecord, error) {
	if a, ok := m.byEmail[email]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *regAdminMock) Create(ctx context.Context, admin *models.AdminRecord) error {
	admin.ID = "generated"
	m.created = append(m.created, *admin)
	return nil
}

func newRegistrationFixture(adminSignup bool) (*RegistrationService, *regStudentMock, *regAdminMock) {
	directory := &regDirectoryMock{roles: map[string]models.Role{
		"taken-uid": models.RoleParent,
	}}
	students := &regStudentMock{}
	admins := &regAdminMock{byEmail: map[string]models.AdminRecord{}}
	svc := NewRegistrationService(directory, students, &regParentMock{}, admins, nil, nil, adminSignup)
	return svc, students, admins
}

func TestCompleteStudentSignup(t *testing.T) {
	svc, students, _ := newRegistrationFixture(false)

	student, err := svc.CompleteStudentSignup(context.Background(), "new-uid", models.StudentSignupRequest{
		FullName:   "Kim Jiwoo",
		SchoolName: "Seoul High",
		Grade:      2,
	})
	require.NoError(t, err)

	// New students start pending approval but with a usable account.
	assert.Equal(t, models.ApprovalPending, student.ApprovalStatus)
	assert.Equal(t, models.AccountActive, student.AccountStatus)
	require.Len(t, students.created, 1)
	assert.Equal(t, "new-uid", students.created[0].UID)
}

func TestCompleteStudentSignupUIDTaken(t *testing.T) {
	svc, students, _ := newRegistrationFixture(false)

	_, err := svc.CompleteStudentSignup(context.Background(), "taken-uid", models.StudentSignupRequest{
		FullName:   "Kim Jiwoo",
		SchoolName: "Seoul High",
		Grade:      2,
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUIDTaken))
	assert.Empty(t, students.created)
}

func TestCompleteParentSignup(t *testing.T) {
	svc, _, _ := newRegistrationFixture(false)

	parent, err := svc.CompleteParentSignup(context.Background(), "par-new", models.ParentSignupRequest{
		FullName:   "Lee Minji",
		StudentIDs: []string{"stu-1", "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"stu-1", "42"}, []string(parent.StudentIDs))
}

func TestRegisterAdminCredential(t *testing.T) {
	svc, _, admins := newRegistrationFixture(false)

	admin, err := svc.RegisterAdminCredential(context.Background(), models.AdminSignupRequest{
		Email:    "new@example.com",
		Password: "long-password",
		FullName: "Park Admin",
	})
	require.NoError(t, err)

	// Always a plain ADMIN pending approval; role is never client-supplied.
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, models.ApprovalPending, admin.ApprovalStatus)
	require.NotNil(t, admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte("long-password")))
	assert.Len(t, admins.created, 1)
}

func TestRegisterAdminCredentialDuplicateEmail(t *testing.T) {
	svc, _, admins := newRegistrationFixture(false)
	email := "dup@example.com"
	admins.byEmail[email] = models.AdminRecord{ID: "adm-1", Email: &email}

	_, err := svc.RegisterAdminCredential(context.Background(), models.AdminSignupRequest{
		Email:    email,
		Password: "long-password",
		FullName: "Park Admin",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUIDTaken))
}

func TestRegisterAdminWithProviderFlag(t *testing.T) {
	svc, _, _ := newRegistrationFixture(false)
	_, err := svc.RegisterAdminWithProvider(context.Background(), "adm-uid", "Park Admin")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	enabled, _, _ := newRegistrationFixture(true)
	admin, err := enabled.RegisterAdminWithProvider(context.Background(), "adm-uid", "Park Admin")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, admin.ApprovalStatus)
	require.NotNil(t, admin.UID)
	assert.Equal(t, "adm-uid", *admin.UID)
}
