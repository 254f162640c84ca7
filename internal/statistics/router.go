package statistics

import (
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupStatisticsRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	admin := rg.Group("/admin/statistics")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		admin.GET("/daily", controller.GetDaily)     // GET /api/v1/admin/statistics/daily?date=
		admin.GET("/monthly", controller.GetMonthly) // GET /api/v1/admin/statistics/monthly?month=
	}
}
