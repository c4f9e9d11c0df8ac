package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/service"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

// SettingsHandler exposes the public settings read and the admin write.
type SettingsHandler struct {
	settings *service.SettingsService
	logger   *zap.Logger
}

// NewSettingsHandler constructs a SettingsHandler instance.
func NewSettingsHandler(settings *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{settings: settings, logger: logger}
}

type settingPayload struct {
	Value string `json:"value"`
}

// List godoc
// @Summary Read the portal settings
// @Tags settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.settings.All(c.Request.Context()), nil)
}

// Get godoc
// @Summary Read one setting
// @Tags settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} response.Envelope
// @Router /settings/{key} [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	value, err := h.settings.Get(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"key": key, "value": value}, nil)
}

// Update godoc
// @Summary Update one setting
// @Tags settings
// @Accept json
// @Produce json
// @Param key path string true "Setting key"
// @Success 204
// @Router /admin/settings/{key} [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var payload settingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.settings.Update(c.Request.Context(), c.Param("key"), payload.Value); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
