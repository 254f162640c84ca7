package settings

import (
	"net/http"
	"regexp"

	"studyhall/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// ListSettings handles GET /admin/settings
func (ctrl *Controller) ListSettings(c *gin.Context) {
	list, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Settings retrieved successfully", list, nil)
}

// GetSetting handles GET /admin/settings/:key
func (ctrl *Controller) GetSetting(c *gin.Context) {
	key := c.Param("key")
	value, ok := ctrl.service.GetValue(c.Request.Context(), key)
	if !ok {
		response.RespondError(c, ErrSettingNotFound)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Setting retrieved successfully", gin.H{"key": key, "value": value}, nil)
}

// UpsertSetting handles PUT /admin/settings/:key
func (ctrl *Controller) UpsertSetting(c *gin.Context) {
	key := c.Param("key")
	if !keyPattern.MatchString(key) {
		response.RespondValidation(c, "Invalid setting key", nil)
		return
	}

	var req UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, "Invalid request body", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, "Validation failed", err.Error())
		return
	}

	setting, err := ctrl.service.SetValue(c.Request.Context(), key, req.Value, req.Description)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Setting saved", setting, nil)
}
