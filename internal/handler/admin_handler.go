package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// AdminHandler exposes the admin area: the student roster, the student
// lifecycle mutations, the roster export and the super-admin directory.
type AdminHandler struct {
	admins    *service.AdminService
	lifecycle *service.LifecycleService
	logger    *zap.Logger
}

// NewAdminHandler constructs an AdminHandler instance.
func NewAdminHandler(admins *service.AdminService, lifecycle *service.LifecycleService, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{admins: admins, lifecycle: lifecycle, logger: logger}
}

type approvalPayload struct {
	Status models.ApprovalStatus `json:"status" binding:"required"`
}

type accountStatusPayload struct {
	Status models.AccountStatus `json:"status" binding:"required"`
}

func studentFilterFrom(c *gin.Context) models.StudentFilter {
	filter := models.StudentFilter{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v := c.Query("approval_status"); v != "" {
		status := models.ApprovalStatus(v)
		filter.ApprovalStatus = &status
	}
	if v := c.Query("account_status"); v != "" {
		status := models.AccountStatus(v)
		filter.AccountStatus = &status
	}
	if v := c.Query("grade"); v != "" {
		if grade, err := strconv.Atoi(v); err == nil {
			filter.Grade = &grade
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return filter
}

// ListStudents godoc
// @Summary List the student roster
// @Tags admin
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.StudentRecord}
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, pagination, err := h.admins.ListStudents(c.Request.Context(), studentFilterFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// GetStudent godoc
// @Summary Load one student record
// @Tags admin
// @Produce json
// @Param uid path string true "Student uid"
// @Success 200 {object} response.Envelope{data=models.StudentRecord}
// @Router /admin/students/{uid} [get]
func (h *AdminHandler) GetStudent(c *gin.Context) {
	student, err := h.admins.GetStudent(c.Request.Context(), c.Param("uid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// SetStudentApproval godoc
// @Summary Change a student's approval status
// @Tags admin
// @Accept json
// @Produce json
// @Param uid path string true "Student uid"
// @Success 200 {object} response.Envelope{data=models.MutationResult}
// @Router /admin/students/{uid}/approval [patch]
func (h *AdminHandler) SetStudentApproval(c *gin.Context) {
	var payload approvalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	response.Result(c, h.lifecycle.SetStudentApproval(c.Request.Context(), principalFrom(c), c.Param("uid"), payload.Status))
}

// SetStudentAccountStatus godoc
// @Summary Deactivate or reactivate a student account
// @Tags admin
// @Accept json
// @Produce json
// @Param uid path string true "Student uid"
// @Success 200 {object} response.Envelope{data=models.MutationResult}
// @Router /admin/students/{uid}/account [patch]
func (h *AdminHandler) SetStudentAccountStatus(c *gin.Context) {
	var payload accountStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	response.Result(c, h.lifecycle.SetStudentAccountStatus(c.Request.Context(), principalFrom(c), c.Param("uid"), payload.Status))
}

// ExportRoster godoc
// @Summary Export the student roster as PDF
// @Tags admin
// @Produce application/pdf
// @Success 200 {file} binary
// @Router /admin/students/export [get]
func (h *AdminHandler) ExportRoster(c *gin.Context) {
	pdf, err := h.admins.ExportRoster(c.Request.Context(), studentFilterFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="student-roster.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListAdmins godoc
// @Summary List the admin directory
// @Tags admin
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.AdminRecord}
// @Router /admin/admins [get]
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	filter := models.AdminFilter{}
	if v := c.Query("role"); v != "" {
		role := models.Role(v)
		filter.Role = &role
	}
	if v := c.Query("approval_status"); v != "" {
		status := models.ApprovalStatus(v)
		filter.ApprovalStatus = &status
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	admins, pagination, err := h.admins.ListAdmins(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admins, pagination)
}

// SetAdminApproval godoc
// @Summary Change an admin's approval status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Admin id"
// @Success 200 {object} response.Envelope{data=models.MutationResult}
// @Router /admin/admins/{id}/approval [patch]
func (h *AdminHandler) SetAdminApproval(c *gin.Context) {
	var payload approvalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	response.Result(c, h.lifecycle.UpdateAdminApproval(c.Request.Context(), principalFrom(c), c.Param("id"), payload.Status))
}

// WithdrawSelf godoc
// @Summary Withdraw the caller's own admin account
// @Tags admin
// @Produce json
// @Param id path string true "Admin id"
// @Success 200 {object} response.Envelope{data=models.MutationResult}
// @Router /admin/admins/{id} [delete]
func (h *AdminHandler) WithdrawSelf(c *gin.Context) {
	response.Result(c, h.lifecycle.WithdrawAdmin(c.Request.Context(), principalFrom(c), c.Param("id")))
}
