package seats

import (
	"studyhall/internal/shared/config"
	"studyhall/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {

	// USER SEAT OPERATIONS

	seats := rg.Group("/seats")
	seats.Use(middleware.JWTAuth(cfg), middleware.RequireRoles(middleware.RoleUser, middleware.RoleAdmin))
	{
		seats.GET("", controller.ListSeats)                 // GET /api/v1/seats
		seats.GET("/available", controller.GetAvailability) // GET /api/v1/seats/available?date=&start=&end=
		seats.GET("/:id", controller.GetSeat)               // GET /api/v1/seats/:id
	}

	// ADMIN SEAT OPERATIONS

	adminSeats := rg.Group("/admin/seats")
	adminSeats.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminSeats.POST("", controller.CreateSeat)                // POST /api/v1/admin/seats
		adminSeats.PUT("/:id", controller.UpdateSeat)             // PUT /api/v1/admin/seats/:id
		adminSeats.PATCH("/:id/status", controller.SetSeatStatus) // PATCH /api/v1/admin/seats/:id/status
		adminSeats.DELETE("/:id", controller.DeleteSeat)          // DELETE /api/v1/admin/seats/:id
	}
}
