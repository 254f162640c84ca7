package reservations

import (
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	reservations := rg.Group("/reservations")
	reservations.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin))
	{
		reservations.POST("", controller.CreateReservation)
		reservations.GET("", controller.ListReservations)
		reservations.GET("/:id", controller.GetReservation)
		reservations.PUT("/:id", controller.Rebook)
		reservations.POST("/:id/cancel", controller.CancelReservation)
		reservations.POST("/:id/check-in", controller.CheckIn)
		reservations.POST("/:id/check-out", controller.CheckOut)
	}
}
