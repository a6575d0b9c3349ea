package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/dto"
)

type Response struct {
	Status  int           `json:"-"`                 // HTTP status code
	Message string        `json:"message,omitempty"` // Optional message
	Error   string        `json:"error,omitempty"`   // Error message
	Code    dto.ErrorCode `json:"code,omitempty"`    // Failure class for clients
	Hint    string        `json:"hint,omitempty"`    // Remediation for recoverable failures
	Data    interface{}   `json:"data,omitempty"`    // Response data
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status: http.StatusOK,
		Data:   data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Status:  http.StatusCreated,
		Message: "Resource created successfully",
		Data:    data,
	})
}

// Fail writes an error envelope and aborts the handler chain.
func Fail(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Status: status,
		Error:  message,
		Code:   code,
	})
}

// Error responses
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, dto.CodeNotAuthenticated, message)
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, dto.CodeBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, dto.CodeNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, dto.CodeInternal, message)
}

func Conflict(c *gin.Context, code dto.ErrorCode, message string) {
	Fail(c, http.StatusConflict, code, message)
}

// IndexMissing reports a query that needs an index which has not been provisioned.
func IndexMissing(c *gin.Context, message, hint string) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, &Response{
		Status: http.StatusServiceUnavailable,
		Error:  message,
		Code:   dto.CodeIndexMissing,
		Hint:   hint,
	})
}
