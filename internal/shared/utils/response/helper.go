package response

import (
	"net/http"

	"studyhall/internal/shared/errs"
	"studyhall/pkg/logger"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes err using its taxonomy kind and code. Storage errors
// are logged and hidden behind a generic message.
func RespondError(c *gin.Context, err error) {
	e := errs.From(err)
	status := e.Status()
	message := e.Message
	if e.Kind == errs.KindStorage {
		logger.GetDefault().LogHTTPError(c, err, status)
		message = "internal server error"
	}
	c.JSON(status, StandardApiResponse{
		Status:     "error",
		StatusCode: status,
		Code:       e.Code,
		Message:    message,
	})
}

// RespondValidation reports a binding or validator failure
func RespondValidation(c *gin.Context, message string, details interface{}) {
	c.JSON(http.StatusBadRequest, StandardApiResponse{
		Status:     "error",
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_FAILED",
		Message:    message,
		Errors:     details,
	})
}
