package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
)

type stubJobAssignments struct{}

func (s *stubJobAssignments) ListActionable(ctx context.Context) ([]models.Assignment, error) {
	return nil, nil
}

func (s *stubJobAssignments) UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus) error {
	return nil
}

type stubJobSchedules struct{}

func (s *stubJobSchedules) ListScheduled(ctx context.Context) ([]models.Schedule, error) {
	return nil, nil
}

func (s *stubJobSchedules) UpdateStatus(ctx context.Context, id string, status models.ScheduleStatus) error {
	return nil
}

func newJobRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	job := service.NewStatusJobService(&stubJobAssignments{}, &stubJobSchedules{}, nil, nil)
	h := NewJobHandler(job, secret, nil)

	r := gin.New()
	r.GET("/jobs/status-refresh", h.Probe)
	r.POST("/jobs/status-refresh", h.RefreshStatuses)
	return r
}

func TestRefreshStatusesRequiresSecret(t *testing.T) {
	r := newJobRouter("topsecret")

	// No credentials at all.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/status-refresh", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong secret.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/jobs/status-refresh", nil)
	req.Header.Set("X-Cron-Secret", "wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshStatusesHeaderForms(t *testing.T) {
	r := newJobRouter("topsecret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/status-refresh", nil)
	req.Header.Set("X-Cron-Secret", "topsecret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "assignments_updated")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/jobs/status-refresh", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshStatusesDisabledWithoutConfig(t *testing.T) {
	// An unset secret disables the endpoint even for empty credentials.
	r := newJobRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jobs/status-refresh", nil)
	req.Header.Set("X-Cron-Secret", "")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProbe(t *testing.T) {
	// The probe does no work and takes no credentials.
	r := newJobRouter("topsecret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs/status-refresh", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
