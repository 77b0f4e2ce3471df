package handler

import (
	"net/http"
	"strconv"

	"socialise/backend/internal/errs"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// MessageResponse is returned by operations that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message" example:"Done"`
}

var statusByCode = map[string]int{
	errs.ENOTFOUND:     http.StatusNotFound,
	errs.EINVALID:      http.StatusBadRequest,
	errs.ECONFLICT:     http.StatusConflict,
	errs.EUNAUTHORIZED: http.StatusUnauthorized,
	errs.EFORBIDDEN:    http.StatusForbidden,
	errs.ETIMEDOUT:     http.StatusGatewayTimeout,
}

// respondError writes err as {"error": message}. Errors without a known code
// are reported as 500 and their cause is attached to the context for logging.
func respondError(c *gin.Context, err error) {
	status, ok := statusByCode[errs.ErrorCode(err)]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": errs.ErrorMessage(err)})
}

// paramID parses a numeric path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
