package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/apierr"
	"github.com/fittrack/fittrack/internal/auth"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/server/response"
)

// Authenticate returns middleware that resolves the caller's identity
// and stores it on the request context. Requests without a valid
// credential are rejected with 401. Runs after rate limiting so
// unauthenticated floods are throttled before token validation.
func Authenticate(authenticator auth.Authenticator, metrics *observability.Metrics, logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, err := authenticator.Authenticate(c.Request)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("authentication error",
				observability.Error(err))
			ac = &auth.Context{}
		}

		if !ac.Authenticated {
			if metrics != nil {
				metrics.RecordAuthFailure("authn")
			}
			response.AbortWithError(c, apierr.Authentication("Authentication required"))
			return
		}

		c.Request = c.Request.WithContext(auth.ContextWith(c.Request.Context(), ac))
		c.Next()
	}
}
