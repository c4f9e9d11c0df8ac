package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// ParentHandler exposes the read-only parent area.
type ParentHandler struct {
	parents *service.ParentService
	logger  *zap.Logger
}

// NewParentHandler constructs a ParentHandler instance.
func NewParentHandler(parents *service.ParentService, logger *zap.Logger) *ParentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParentHandler{parents: parents, logger: logger}
}

// Profile godoc
// @Summary Load the parent profile and linked students
// @Tags parent
// @Produce json
// @Param uid path string true "Parent uid"
// @Success 200 {object} response.Envelope
// @Router /parent/{uid} [get]
func (h *ParentHandler) Profile(c *gin.Context) {
	uid := c.Param("uid")
	parent, err := h.parents.Profile(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.parents.LinkedStudents(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"parent": parent, "students": students}, nil)
}

type studentLinksPayload struct {
	StudentIDs []string `json:"student_ids"`
}

// UpdateStudentLinks godoc
// @Summary Replace the caller's linked student references
// @Tags parent
// @Accept json
// @Produce json
// @Param uid path string true "Parent uid"
// @Success 200 {object} response.Envelope{data=models.ParentRecord}
// @Router /parent/{uid}/students [put]
func (h *ParentHandler) UpdateStudentLinks(c *gin.Context) {
	var payload studentLinksPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	parent, err := h.parents.UpdateStudentLinks(c.Request.Context(), c.Param("uid"), payload.StudentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parent, nil)
}

// Withdraw godoc
// @Summary Withdraw the caller's parent account
// @Tags parent
// @Produce json
// @Param uid path string true "Parent uid"
// @Success 204
// @Router /parent/{uid} [delete]
func (h *ParentHandler) Withdraw(c *gin.Context) {
	if err := h.parents.Withdraw(c.Request.Context(), c.Param("uid")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StudentView godoc
// @Summary Load one linked student's data
// @Tags parent
// @Produce json
// @Param uid path string true "Parent uid"
// @Param studentRef path string true "Student id or uid"
// @Success 200 {object} response.Envelope{data=service.ParentStudentView}
// @Router /parent/{uid}/students/{studentRef} [get]
func (h *ParentHandler) StudentView(c *gin.Context) {
	view, err := h.parents.StudentView(c.Request.Context(), c.Param("uid"), c.Param("studentRef"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
