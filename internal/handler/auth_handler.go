package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// AuthHandler exposes the login and signup surfaces.
type AuthHandler struct {
	auth         *service.AuthService
	registration *service.RegistrationService
	logger       *zap.Logger
}

// NewAuthHandler constructs an AuthHandler instance.
func NewAuthHandler(auth *service.AuthService, registration *service.RegistrationService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, registration: registration, logger: logger}
}

type studentSignupPayload struct {
	IDToken string `json:"id_token" binding:"required"`
	models.StudentSignupRequest
}

type parentSignupPayload struct {
	IDToken string `json:"id_token" binding:"required"`
	models.ParentSignupRequest
}

// Login godoc
// @Summary Exchange a provider ID token for a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.GoogleLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope{data=models.LoginResponse}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.auth.LoginWithProvider(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AdminLogin godoc
// @Summary Authenticate a credential admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.AdminLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope{data=models.LoginResponse}
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.auth.LoginAdmin(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// StudentSignup godoc
// @Summary Complete student registration
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope{data=models.LoginResponse}
// @Router /auth/signup/student [post]
func (h *AuthHandler) StudentSignup(c *gin.Context) {
	var payload studentSignupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	uid, err := h.auth.VerifyIdentity(c.Request.Context(), payload.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	student, err := h.registration.CompleteStudentSignup(c.Request.Context(), uid, payload.StudentSignupRequest)
	if err != nil {
		response.Error(c, err)
		return
	}

	session, err := h.auth.IssueSessionFor(models.Principal{
		UID:    student.UID,
		Role:   models.RoleStudent,
		Status: student.ApprovalStatus,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// ParentSignup godoc
// @Summary Complete parent registration
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope{data=models.LoginResponse}
// @Router /auth/signup/parent [post]
func (h *AuthHandler) ParentSignup(c *gin.Context) {
	var payload parentSignupPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	uid, err := h.auth.VerifyIdentity(c.Request.Context(), payload.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	parent, err := h.registration.CompleteParentSignup(c.Request.Context(), uid, payload.ParentSignupRequest)
	if err != nil {
		response.Error(c, err)
		return
	}

	session, err := h.auth.IssueSessionFor(models.Principal{UID: parent.UID, Role: models.RoleParent})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// AdminSignup godoc
// @Summary Register a credential admin, pending approval
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.AdminSignupRequest true "Signup payload"
// @Success 201 {object} response.Envelope{data=models.AdminRecord}
// @Router /auth/signup/admin [post]
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	var req models.AdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	admin, err := h.registration.RegisterAdminCredential(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// AdminProviderSignup godoc
// @Summary Register an admin via the identity provider
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.AdminProviderSignupRequest true "Signup payload"
// @Success 201 {object} response.Envelope{data=models.AdminRecord}
// @Router /auth/signup/admin/provider [post]
func (h *AuthHandler) AdminProviderSignup(c *gin.Context) {
	var req models.AdminProviderSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	uid, err := h.auth.VerifyIdentity(c.Request.Context(), req.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	admin, err := h.registration.RegisterAdminWithProvider(c.Request.Context(), uid, req.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}
