// api/util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/zt-labs/aegis/api/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// RequestingAdmin returns the subject of the verified admin token, or empty
// when the route is not behind admin auth.
func RequestingAdmin(c *gin.Context) string {
	subject, exists := c.Get("requestingUserID")
	if !exists {
		return ""
	}
	s, _ := subject.(string)
	return s
}
