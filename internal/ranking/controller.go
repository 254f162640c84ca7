package ranking

import (
	"net/http"
	"strconv"

	"studyhall/internal/shared/middleware"
	"studyhall/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetMonthly handles GET /ranking/monthly?limit=
func (ctrl *Controller) GetMonthly(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	entries, err := ctrl.service.TopByMonthly(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Monthly ranking retrieved successfully", entries, nil)
}

// GetTotal handles GET /ranking/total?limit=
func (ctrl *Controller) GetTotal(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	entries, err := ctrl.service.TopByTotal(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Total ranking retrieved successfully", entries, nil)
}

// GetMine handles GET /ranking/me
func (ctrl *Controller) GetMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	rank, err := ctrl.service.RankOf(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Rank retrieved successfully", rank, nil)
}
