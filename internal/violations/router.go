package violations

import (
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupViolationRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	mine := rg.Group("/violations")
	mine.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin))
	{
		mine.GET("/me", controller.GetMyViolations) // GET /api/v1/violations/me
	}

	admin := rg.Group("/admin/violations")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListViolations)                  // GET /api/v1/admin/violations
		admin.POST("", controller.RecordViolation)                // POST /api/v1/admin/violations
		admin.PATCH("/:id/status", controller.SetViolationStatus) // PATCH /api/v1/admin/violations/:id/status
	}
}
