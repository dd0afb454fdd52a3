package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/observability"
)

// Metrics returns middleware that records request count and latency
// per method, route and status. The matched route pattern is used so
// parameterized paths do not explode label cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
