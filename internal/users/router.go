package users

import (
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers the admin user directory routes
func SetupUserRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	admin := rg.Group("/admin/users")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListUsers)               // GET  /api/v1/admin/users?status=&search=&page=&limit=
		admin.GET("/:id", controller.GetUser)             // GET  /api/v1/admin/users/:id
		admin.POST("/:id/enable", controller.EnableUser)   // POST /api/v1/admin/users/:id/enable
		admin.POST("/:id/disable", controller.DisableUser) // POST /api/v1/admin/users/:id/disable
	}
}
