package users

import (
	"net/http"
	"strconv"
	"strings"

	"studyhall/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListUsers handles GET /admin/users
func (ctrl *Controller) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	query := ListQuery{
		Status: Status(strings.ToUpper(c.Query("status"))),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	result, err := ctrl.service.ListUsers(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Users retrieved successfully", result, nil)
}

// GetUser handles GET /admin/users/:id
func (ctrl *Controller) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondValidation(c, "Invalid user ID", err.Error())
		return
	}

	user, err := ctrl.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "User retrieved successfully", user, nil)
}

// EnableUser handles POST /admin/users/:id/enable
func (ctrl *Controller) EnableUser(c *gin.Context) {
	ctrl.setStatus(c, StatusEnabled)
}

// DisableUser handles POST /admin/users/:id/disable
func (ctrl *Controller) DisableUser(c *gin.Context) {
	ctrl.setStatus(c, StatusDisabled)
}

func (ctrl *Controller) setStatus(c *gin.Context, status Status) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondValidation(c, "Invalid user ID", err.Error())
		return
	}

	if status == StatusEnabled {
		err = ctrl.service.EnableUser(c.Request.Context(), id)
	} else {
		err = ctrl.service.DisableUser(c.Request.Context(), id)
	}
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "User status updated", gin.H{"id": id, "status": status}, nil)
}
