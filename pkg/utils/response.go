package utils

import (
	"net/http"

	"user-auth-backend/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// SuccessResponse sends a JSON body with status 200
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// MessageResponse sends a simple message response
func MessageResponse(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"msg": message,
	})
}

// ErrorResponse sends a standard error JSON response
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"message": message,
	})
}

// AbortWithError maps a service failure to its HTTP classification. Errors
// without a classification surface as 500.
func AbortWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		for key, value := range appErr.Headers {
			c.Header(key, value)
		}
		c.AbortWithStatusJSON(appErr.Status, gin.H{
			"message": appErr.Message,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"message": "Internal server error",
	})
}
