package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// StudentHandler exposes the student area: the dashboard, the owned learning
// records and the self-service account transitions.
type StudentHandler struct {
	students  *service.StudentService
	lifecycle *service.LifecycleService
	logger    *zap.Logger
}

// NewStudentHandler constructs a StudentHandler instance.
func NewStudentHandler(students *service.StudentService, lifecycle *service.LifecycleService, logger *zap.Logger) *StudentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentHandler{students: students, lifecycle: lifecycle, logger: logger}
}

// Dashboard godoc
// @Summary Load the student dashboard
// @Tags student
// @Produce json
// @Param id path string true "Student id or uid"
// @Success 200 {object} response.Envelope{data=service.StudentDashboard}
// @Router /student/{id} [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.students.Dashboard(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// CreateUnit adds a learning unit.
func (h *StudentHandler) CreateUnit(c *gin.Context) {
	var req service.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	unit, err := h.students.CreateUnit(c.Request.Context(), principalFrom(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

// UpdateUnit updates a learning unit.
func (h *StudentHandler) UpdateUnit(c *gin.Context) {
	var req service.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	unit, err := h.students.UpdateUnit(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("unitId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// DeleteUnit removes a learning unit.
func (h *StudentHandler) DeleteUnit(c *gin.Context) {
	if err := h.students.DeleteUnit(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("unitId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateAssignment adds an assignment.
func (h *StudentHandler) CreateAssignment(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	assignment, err := h.students.CreateAssignment(c.Request.Context(), principalFrom(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// UpdateAssignment updates an assignment.
func (h *StudentHandler) UpdateAssignment(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	assignment, err := h.students.UpdateAssignment(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("assignmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// SubmitAssignment godoc
// @Summary Submit an assignment
// @Tags student
// @Produce json
// @Param id path string true "Student id or uid"
// @Param assignmentId path string true "Assignment id"
// @Success 200 {object} response.Envelope{data=models.Assignment}
// @Router /student/{id}/assignments/{assignmentId}/submit [post]
func (h *StudentHandler) SubmitAssignment(c *gin.Context) {
	assignment, err := h.students.SubmitAssignment(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("assignmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// DeleteAssignment removes an assignment.
func (h *StudentHandler) DeleteAssignment(c *gin.Context) {
	if err := h.students.DeleteAssignment(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("assignmentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateSchedule adds a study session.
func (h *StudentHandler) CreateSchedule(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	schedule, err := h.students.CreateSchedule(c.Request.Context(), principalFrom(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// UpdateSchedule updates a study session.
func (h *StudentHandler) UpdateSchedule(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	schedule, err := h.students.UpdateSchedule(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("scheduleId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// DeleteSchedule removes a study session.
func (h *StudentHandler) DeleteSchedule(c *gin.Context) {
	if err := h.students.DeleteSchedule(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("scheduleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateNote adds a study note.
func (h *StudentHandler) CreateNote(c *gin.Context) {
	var req service.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	note, err := h.students.CreateNote(c.Request.Context(), principalFrom(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// UpdateNote updates a study note.
func (h *StudentHandler) UpdateNote(c *gin.Context) {
	var req service.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	note, err := h.students.UpdateNote(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("noteId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}

// DeleteNote removes a study note.
func (h *StudentHandler) DeleteNote(c *gin.Context) {
	if err := h.students.DeleteNote(c.Request.Context(), principalFrom(c), c.Param("id"), c.Param("noteId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Deactivate godoc
// @Summary Deactivate the caller's own account
// @Tags student
// @Produce json
// @Param id path string true "Student uid"
// @Success 200 {object} response.Envelope{data=models.MutationResult}
// @Router /student/{id}/deactivate [post]
func (h *StudentHandler) Deactivate(c *gin.Context) {
	response.Result(c, h.lifecycle.DeactivateSelf(c.Request.Context(), principalFrom(c), c.Param("id")))
}

// Reactivate flips the caller's own account back to ACTIVE.
func (h *StudentHandler) Reactivate(c *gin.Context) {
	response.Result(c, h.lifecycle.ReactivateSelf(c.Request.Context(), principalFrom(c), c.Param("id")))
}

// Withdraw godoc
// @Summary Withdraw the caller's own account and data
// @Tags student
// @Produce json
// @Param id path string true "Student uid"
// @Success 200 {object} response.Envelope{data=models.MutationResult}
// @Router /student/{id} [delete]
func (h *StudentHandler) Withdraw(c *gin.Context) {
	response.Result(c, h.lifecycle.WithdrawSelf(c.Request.Context(), principalFrom(c), c.Param("id")))
}
