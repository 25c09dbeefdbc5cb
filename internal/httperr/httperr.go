package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Status maps a business code to its HTTP status. Validation errors are 400,
// missing references 404, losing the slot race 409. Anything unknown is a
// persistence-level failure and stays 500.
func Status(code string) int {
	switch code {
	case CodeEmptyServiceSelection,
		CodeInvalidTimeFormat,
		CodeInvalidDate,
		CodeInvalidDuration,
		CodeOutsideWorkingHours,
		CodeTooSoon,
		CodeInvalidState,
		CodeInvalidWorkingHours:
		return http.StatusBadRequest

	case CodeServiceNotFound,
		CodeProfessionalNotFound,
		CodeAppointmentNotFound,
		CodeTenantNotFound:
		return http.StatusNotFound

	case CodeSlotUnavailable:
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Business writes a BusinessError with its mapped status and reports whether
// err was one. Non-business errors are left for the caller to handle as 500.
func Business(c *gin.Context, err error, message string) bool {
	code := BusinessCode(err)
	if code == "" {
		return false
	}

	Write(c, Status(code), code, message)
	return true
}
