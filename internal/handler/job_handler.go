package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// JobHandler exposes the scheduler-triggered status refresh. The endpoint is
// authenticated by a shared cron secret, never by a user session.
type JobHandler struct {
	job    *service.StatusJobService
	secret string
	logger *zap.Logger
}

// NewJobHandler constructs a JobHandler instance.
func NewJobHandler(job *service.StatusJobService, secret string, logger *zap.Logger) *JobHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobHandler{job: job, secret: secret, logger: logger}
}

// RefreshStatuses godoc
// @Summary Run the time-derived status refresh
// @Tags jobs
// @Produce json
// @Success 200 {object} response.Envelope{data=service.JobReport}
// @Router /jobs/status-refresh [post]
func (h *JobHandler) RefreshStatuses(c *gin.Context) {
	if !h.authorized(c) {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid cron credentials"))
		return
	}

	report, err := h.job.Run(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("status refresh failed", zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "status refresh failed"))
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Probe answers scheduler health checks. It does no work, so it takes no
// credentials.
func (h *JobHandler) Probe(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"}, nil)
}

// authorized checks the shared secret before any work happens. An empty
// configured secret disables the endpoint entirely.
func (h *JobHandler) authorized(c *gin.Context) bool {
	if h.secret == "" {
		return false
	}

	candidate := c.GetHeader("X-Cron-Secret")
	if candidate == "" {
		header := c.GetHeader("Authorization")
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			candidate = strings.TrimSpace(parts[1])
		}
	}
	if candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(h.secret)) == 1
}
