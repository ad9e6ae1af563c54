// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"strategy_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
// Handlers that attach errors via c.Error get them translated here; responses
// already written by common.RespondWithError pass through untouched.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			ginErr := c.Errors.Last()
			apiErr, isAPIErr := common.IsAPIError(ginErr.Err)
			if !isAPIErr {
				logger.Error("Unhandled application error",
					zap.Error(ginErr.Err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(common.ContextKeyRequestID)),
				)
				apiErr = common.ErrInternalServer
			}
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
			return
		}

		if c.Writer.Written() || len(c.Errors) > 0 {
			return
		}

		switch c.Writer.Status() {
		case http.StatusNotFound:
			notFoundErr := common.ErrNotFound.WithDetails("The requested endpoint does not exist.")
			c.AbortWithStatusJSON(notFoundErr.StatusCode, notFoundErr)
		case http.StatusMethodNotAllowed:
			methodErr := common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL.")
			c.AbortWithStatusJSON(methodErr.StatusCode, methodErr)
		}
	}
}
