package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

type fakeGateAdmins struct {
	admins map[string]models.AdminRecord
	err    error
}

func (f *fakeGateAdmins) FindByPrincipalUID(ctx context.Context, uid string) (*models.AdminRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if admin, ok := f.admins[uid]; ok {
		return &admin, nil
	}
	return nil, sql.ErrNoRows
}

type fakeGateMetrics struct {
	rules []string
}

func (f *fakeGateMetrics) ObserveGateDecision(area, rule string) {
	f.rules = append(f.rules, area+"/"+rule)
}

func TestDecideNoSession(t *testing.T) {
	svc := NewAccessService(&fakeGateAdmins{}, nil, nil)

	decision := svc.Decide(context.Background(), nil, AreaStudent, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathLogin, decision.RedirectTo)

	decision = svc.Decide(context.Background(), nil, AreaAdmin, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathAdminLogin, decision.RedirectTo)
}

func TestDecideStudentArea(t *testing.T) {
	svc := NewAccessService(&fakeGateAdmins{}, nil, nil)

	approved := &models.Principal{UID: "stu-1", Role: models.RoleStudent, Status: models.ApprovalApproved}
	assert.True(t, svc.Decide(context.Background(), approved, AreaStudent, "stu-1").Allow)

	pending := &models.Principal{UID: "stu-2", Role: models.RoleStudent, Status: models.ApprovalPending}
	decision := svc.Decide(context.Background(), pending, AreaStudent, "stu-2")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathPendingApproval, decision.RedirectTo)

	parent := &models.Principal{UID: "par-1", Role: models.RoleParent}
	decision = svc.Decide(context.Background(), parent, AreaStudent, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathLogin, decision.RedirectTo)
}

func TestDecideParentUIDMismatch(t *testing.T) {
	svc := NewAccessService(&fakeGateAdmins{}, nil, nil)
	parent := &models.Principal{UID: "par-1", Role: models.RoleParent}

	assert.True(t, svc.Decide(context.Background(), parent, AreaParent, "par-1").Allow)

	decision := svc.Decide(context.Background(), parent, AreaParent, "par-2")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathLogin, decision.RedirectTo)
}

func TestDecideAdminAreaRevalidatesDirectory(t *testing.T) {
	admins := &fakeGateAdmins{admins: map[string]models.AdminRecord{
		"adm-ok":      {ID: "adm-ok", Role: models.RoleAdmin, ApprovalStatus: models.ApprovalApproved},
		"adm-pending": {ID: "adm-pending", Role: models.RoleAdmin, ApprovalStatus: models.ApprovalPending},
	}}
	svc := NewAccessService(admins, nil, nil)

	approved := &models.Principal{UID: "adm-ok", Role: models.RoleAdmin, Status: models.ApprovalApproved}
	assert.True(t, svc.Decide(context.Background(), approved, AreaAdmin, "").Allow)

	// The token claims APPROVED but the directory says PENDING; the
	// directory wins.
	stale := &models.Principal{UID: "adm-pending", Role: models.RoleAdmin, Status: models.ApprovalApproved}
	decision := svc.Decide(context.Background(), stale, AreaAdmin, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathPendingApproval, decision.RedirectTo)

	// Record deleted since the token was issued.
	gone := &models.Principal{UID: "adm-gone", Role: models.RoleAdmin, Status: models.ApprovalApproved}
	decision = svc.Decide(context.Background(), gone, AreaAdmin, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathAdminLogin, decision.RedirectTo)
}

func TestDecideAdminAreaNonAdminToken(t *testing.T) {
	svc := NewAccessService(&fakeGateAdmins{}, nil, nil)
	student := &models.Principal{UID: "stu-1", Role: models.RoleStudent, Status: models.ApprovalApproved}

	decision := svc.Decide(context.Background(), student, AreaAdmin, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathAdminLoginError, decision.RedirectTo)
}

func TestDecideAdminAreaFailsClosed(t *testing.T) {
	svc := NewAccessService(&fakeGateAdmins{err: errors.New("connection refused")}, nil, nil)
	admin := &models.Principal{UID: "adm-1", Role: models.RoleAdmin, Status: models.ApprovalApproved}

	decision := svc.Decide(context.Background(), admin, AreaAdmin, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathAdminLogin, decision.RedirectTo)
}

func TestDecideSuperAreaSoftDowngrade(t *testing.T) {
	admins := &fakeGateAdmins{admins: map[string]models.AdminRecord{
		"adm-1":   {ID: "adm-1", Role: models.RoleAdmin, ApprovalStatus: models.ApprovalApproved},
		"super-1": {ID: "super-1", Role: models.RoleSuperAdmin, ApprovalStatus: models.ApprovalApproved},
	}}
	svc := NewAccessService(admins, nil, nil)

	plain := &models.Principal{UID: "adm-1", Role: models.RoleAdmin}
	decision := svc.Decide(context.Background(), plain, AreaAdminSuper, "")
	assert.False(t, decision.Allow)
	assert.Equal(t, PathAdminHome, decision.RedirectTo)

	super := &models.Principal{UID: "super-1", Role: models.RoleSuperAdmin}
	assert.True(t, svc.Decide(context.Background(), super, AreaAdminSuper, "").Allow)
}

func TestDecideRecordsMetrics(t *testing.T) {
	metrics := &fakeGateMetrics{}
	svc := NewAccessService(&fakeGateAdmins{}, metrics, nil)

	svc.Decide(context.Background(), nil, AreaStudent, "")
	svc.Decide(context.Background(), &models.Principal{UID: "stu-1", Role: models.RoleStudent, Status: models.ApprovalApproved}, AreaStudent, "")

	assert.Equal(t, []string{"student/no_session", "student/allow"}, metrics.rules)
}
