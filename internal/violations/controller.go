package violations

import (
	"net/http"
	"strconv"
	"strings"

	"studyhall/internal/shared/middleware"
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

// GetMyViolations handles GET /violations/me
func (ctrl *Controller) GetMyViolations(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	query := listQueryFrom(c)
	query.UserID = &userID
	result, err := ctrl.service.ListViolations(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	summary, err := ctrl.service.GetSummary(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Violations retrieved successfully",
		gin.H{"summary": summary, "violations": result}, nil)
}

// ListViolations handles GET /admin/violations?user_id=&status=&type=
func (ctrl *Controller) ListViolations(c *gin.Context) {
	query := listQueryFrom(c)
	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.RespondValidation(c, "Invalid user ID", err.Error())
			return
		}
		query.UserID = &userID
	}

	result, err := ctrl.service.ListViolations(c.Request.Context(), query)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Violations retrieved successfully", result, nil)
}

// RecordViolation handles POST /admin/violations
func (ctrl *Controller) RecordViolation(c *gin.Context) {
	var req RecordViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, "Invalid request data", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, "Validation failed", err.Error())
		return
	}

	input := RecordInput{
		UserID:      uuid.MustParse(req.UserID),
		Type:        Type(req.Type),
		Description: req.Description,
	}
	if req.ReservationID != nil {
		id := uuid.MustParse(*req.ReservationID)
		input.ReservationID = &id
	}

	outcome, err := ctrl.service.Record(c.Request.Context(), input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Violation recorded successfully", outcome, nil)
}

// SetViolationStatus handles PATCH /admin/violations/:id/status
func (ctrl *Controller) SetViolationStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondValidation(c, "Invalid violation ID", err.Error())
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondValidation(c, "Invalid request data", err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondValidation(c, "Validation failed", err.Error())
		return
	}

	v, err := ctrl.service.SetStatus(c.Request.Context(), id, Status(req.Status))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Violation status updated", v, nil)
}

func listQueryFrom(c *gin.Context) ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return ListQuery{
		Status: Status(strings.ToUpper(c.Query("status"))),
		Type:   Type(strings.ToUpper(c.Query("type"))),
		Page:   page,
		Limit:  limit,
	}
}
