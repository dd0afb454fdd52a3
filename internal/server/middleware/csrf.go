package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/apierr"
	"github.com/fittrack/fittrack/internal/csrf"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/server/response"
)

// CSRF returns middleware that enforces double-submit token
// validation on state-changing requests. Safe methods pass through
// untouched. Runs before rate limiting so forged requests never
// consume the caller's quota.
func CSRF(manager *csrf.Manager, metrics *observability.Metrics, logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if csrf.IsSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		if err := manager.Validate(c.Request); err != nil {
			if metrics != nil {
				metrics.RecordCSRFRejection()
			}
			logger.WithContext(c.Request.Context()).Warn("csrf validation failed",
				observability.String("path", c.Request.URL.Path),
				observability.Error(err),
			)
			response.AbortWithError(c, apierr.CSRF(csrfMessage(err)))
			return
		}

		c.Next()
	}
}

func csrfMessage(err error) string {
	switch {
	case errors.Is(err, csrf.ErrMissingCookie):
		return "CSRF cookie missing"
	case errors.Is(err, csrf.ErrMissingToken):
		return "CSRF token missing"
	default:
		return "CSRF token invalid"
	}
}
