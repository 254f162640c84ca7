package seats

import (
	"net/http"
	"strings"

	"studyhall/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// SEAT DIRECTORY

// ListSeats handles GET /seats?area=&status=
func (ctrl *Controller) ListSeats(c *gin.Context) {
	query := ListQuery{
		Area:   c.Query("area"),
		Status: Status(strings.ToUpper(c.Query("status"))),
	}
	if query.Status != "" && !IsValidStatus(string(query.Status)) {
		response.RespondError(c, ErrInvalidSeatStatus)
		return
	}

	list, err := ctrl.service.ListSeats(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", list, nil)
}

// GetSeat handles GET /seats/:id
func (ctrl *Controller) GetSeat(c *gin.Context) {
	id, ok := parseSeatID(c)
	if !ok {
		return
	}

	seat, err := ctrl.service.GetSeat(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat retrieved successfully", seat, nil)
}

// GetAvailability handles GET /seats/available?date=&start=&end=
func (ctrl *Controller) GetAvailability(c *gin.Context) {
	date, start, end := c.Query("date"), c.Query("start"), c.Query("end")
	if date == "" || start == "" || end == "" {
		response.RespondValidation(c, "date, start and end are required", nil)
		return
	}

	result, err := ctrl.service.GetAvailability(c.Request.Context(), date, start, end)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat availability retrieved successfully", result, nil)
}

// ADMIN

// CreateSeat handles POST /admin/seats
func (ctrl *Controller) CreateSeat(c *gin.Context) {
	var req CreateSeatRequest
	if !ctrl.bind(c, &req) {
		return
	}

	seat, err := ctrl.service.CreateSeat(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Seat created successfully", seat, nil)
}

// UpdateSeat handles PUT /admin/seats/:id
func (ctrl *Controller) UpdateSeat(c *gin.Context) {
	id, ok := parseSeatID(c)
	if !ok {
		return
	}
	var req UpdateSeatRequest
	if !ctrl.bind(c, &req) {
		return
	}

	seat, err := ctrl.service.UpdateSeat(c.Request.Context(), id, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat updated successfully", seat, nil)
}

// SetSeatStatus handles PATCH /admin/seats/:id/status
func (ctrl *Controller) SetSeatStatus(c *gin.Context) {
	id, ok := parseSeatID(c)
	if !ok {
		return
	}
	var req SetSeatStatusRequest
	if !ctrl.bind(c, &req) {
		return
	}

	seat, err := ctrl.service.SetSeatStatus(c.Request.Context(), id, Status(req.Status))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat status updated successfully", seat, nil)
}

// DeleteSeat handles DELETE /admin/seats/:id
func (ctrl *Controller) DeleteSeat(c *gin.Context) {
	id, ok := parseSeatID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteSeat(c.Request.Context(), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seat deleted successfully", nil, nil)
}

func (ctrl *Controller) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.RespondValidation(c, "Invalid request data", err.Error())
		return false
	}
	if err := ctrl.validator.Struct(req); err != nil {
		response.RespondValidation(c, "Validation failed", err.Error())
		return false
	}
	return true
}

func parseSeatID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondValidation(c, "Invalid seat ID", err.Error())
		return uuid.Nil, false
	}
	return id, true
}
