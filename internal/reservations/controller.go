package reservations

import (
	"net/http"
	"strconv"
	"strings"

	"studyhall/internal/shared/middleware"
	"studyhall/internal/shared/timeslot"
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
	return &Controller{service: service, validator: timeslot.NewValidator()}
}

// CreateReservation handles POST /reservations
func (ctrl *Controller) CreateReservation(c *gin.Context) {
	userID, ok := ctrl.currentUser(c)
	if !ok {
		return
	}
	var req CreateReservationRequest
	if !ctrl.bind(c, &req) {
		return
	}

	res, err := ctrl.service.CreateReservation(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Reservation created successfully", res, nil)
}

// CancelReservation handles POST /reservations/:id/cancel
func (ctrl *Controller) CancelReservation(c *gin.Context) {
	userID, id, ok := ctrl.target(c)
	if !ok {
		return
	}

	res, err := ctrl.service.CancelReservation(c.Request.Context(), userID, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Reservation cancelled successfully", res, nil)
}

// CheckIn handles POST /reservations/:id/check-in
func (ctrl *Controller) CheckIn(c *gin.Context) {
	userID, id, ok := ctrl.target(c)
	if !ok {
		return
	}

	res, err := ctrl.service.CheckIn(c.Request.Context(), userID, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Checked in successfully", res, nil)
}

// CheckOut handles POST /reservations/:id/check-out
func (ctrl *Controller) CheckOut(c *gin.Context) {
	userID, id, ok := ctrl.target(c)
	if !ok {
		return
	}

	res, err := ctrl.service.CheckOut(c.Request.Context(), userID, id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Checked out successfully", res, nil)
}

// Rebook handles PUT /reservations/:id
func (ctrl *Controller) Rebook(c *gin.Context) {
	userID, id, ok := ctrl.target(c)
	if !ok {
		return
	}
	var req RebookRequest
	if !ctrl.bind(c, &req) {
		return
	}

	res, err := ctrl.service.Rebook(c.Request.Context(), userID, id, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Reservation changed successfully", res, nil)
}

// GetReservation handles GET /reservations/:id. Users only see their own.
func (ctrl *Controller) GetReservation(c *gin.Context) {
	userID, id, ok := ctrl.target(c)
	if !ok {
		return
	}

	res, err := ctrl.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if res.UserID != userID && !middleware.IsAdmin(c) {
		response.RespondError(c, ErrNotOwner)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Reservation retrieved successfully", res, nil)
}

// ListReservations handles GET /reservations?user_id=&date=&status=
// A user lists their own reservations; listing by another user or across
// all users by date is reserved for administrators.
func (ctrl *Controller) ListReservations(c *gin.Context) {
	userID, ok := ctrl.currentUser(c)
	if !ok {
		return
	}
	isAdmin := middleware.IsAdmin(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	query := ListQuery{
		Date:   c.Query("date"),
		Status: Status(strings.ToUpper(c.Query("status"))),
		Page:   page,
		Limit:  limit,
	}
	if query.Status != "" && !query.Status.IsValid() {
		response.RespondValidation(c, "Invalid status filter", nil)
		return
	}

	if raw := c.Query("user_id"); raw != "" {
		target, err := uuid.Parse(raw)
		if err != nil {
			response.RespondValidation(c, "Invalid user ID", err.Error())
			return
		}
		if target != userID && !isAdmin {
			response.RespondJSON(c, "error", http.StatusForbidden, "Cannot list another user's reservations", nil, nil)
			return
		}
		query.UserID = &target
	} else if !isAdmin {
		query.UserID = &userID
	}

	if raw := c.Query("seat_id"); raw != "" {
		seatID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondValidation(c, "Invalid seat ID", err.Error())
			return
		}
		query.SeatID = &seatID
	}

	result, err := ctrl.service.ListReservations(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
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

func (ctrl *Controller) currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

// target resolves the caller and the :id path parameter
func (ctrl *Controller) target(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := ctrl.currentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondValidation(c, "Invalid reservation ID", err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
