package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/apierr"
	"github.com/fittrack/fittrack/internal/observability"
	"github.com/fittrack/fittrack/internal/ratelimit"
	"github.com/fittrack/fittrack/internal/server/response"
)

// RateLimit returns middleware that enforces the named preset's
// limiter keyed by keyFunc. The limiter is resolved per request so a
// config reload takes effect without restarting. Every response
// carries X-RateLimit-* headers; a denied request additionally
// carries Retry-After and is not counted against the window.
func RateLimit(limiters *ratelimit.Registry, preset string, keyFunc ratelimit.KeyFunc, metrics *observability.Metrics, logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c.Request)

		result, err := limiters.Get(preset).Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithContext(c.Request.Context()).Error("rate limiter failure",
				observability.String("preset", preset),
				observability.Error(err),
			)
			// Fail open: a broken limiter must not take the API down.
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			if metrics != nil {
				metrics.RecordRateLimitHit(preset)
			}
			logger.WithContext(c.Request.Context()).Warn("rate limit exceeded",
				observability.String("preset", preset),
				observability.String("key", key),
			)
			c.Header("Retry-After", strconv.Itoa(ceilSeconds(result.RetryAfter)))
			response.AbortWithError(c, apierr.RateLimited("Too many requests. Please try again later."))
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *ratelimit.Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(unixCeil(time.Now().Add(result.ResetAfter)), 10))
}

// unixCeil rounds a timestamp up to the next whole second so the
// advertised reset is never earlier than the actual one.
func unixCeil(t time.Time) int64 {
	if t.Nanosecond() > 0 {
		return t.Unix() + 1
	}
	return t.Unix()
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return int(math.Ceil(d.Seconds()))
}
