package ranking

import (
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRankingRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	ranking := rg.Group("/ranking")
	ranking.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin))
	{
		ranking.GET("/monthly", controller.GetMonthly)
		ranking.GET("/total", controller.GetTotal)
		ranking.GET("/me", controller.GetMine)
	}
}
