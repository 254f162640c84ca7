package statistics

import (
	"net/http"
	"time"

	"studyhall/internal/shared/config"
	"studyhall/internal/shared/timeslot"
	"studyhall/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	config  *config.Config
}

func NewController(service Service, cfg *config.Config) *Controller {
	return &Controller{service: service, config: cfg}
}

// GetDaily handles GET /admin/statistics/daily?date= (defaults to today)
func (ctrl *Controller) GetDaily(c *gin.Context) {
	date := c.DefaultQuery("date", timeslot.Today(time.Now(), ctrl.config.Location()))

	stats, err := ctrl.service.GetDaily(c.Request.Context(), date)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Daily statistics retrieved successfully", stats, nil)
}

// GetMonthly handles GET /admin/statistics/monthly?month= (defaults to the current month)
func (ctrl *Controller) GetMonthly(c *gin.Context) {
	month := c.DefaultQuery("month", time.Now().In(ctrl.config.Location()).Format(timeslot.MonthLayout))

	stats, err := ctrl.service.GetMonthly(c.Request.Context(), month)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Monthly statistics retrieved successfully", stats, nil)
}
