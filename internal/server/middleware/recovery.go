// Package middleware provides the HTTP middleware chain for the
// fittrack server. Guards run in a fixed order: CSRF validation, rate
// limiting, authentication, then authorization inside the handlers.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/server/response"
)

// Recovery returns middleware that recovers from panics, logs the
// panic value and returns a generic 500 envelope.
func Recovery(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					observability.Any("panic", r),
					observability.String("path", c.Request.URL.Path),
					observability.String("method", c.Request.Method),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope{
					Success: false,
					Error:   "An unexpected error occurred",
				})
			}
		}()
		c.Next()
	}
}
