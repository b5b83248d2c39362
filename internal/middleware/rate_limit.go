package middleware

import (
	"net/http"
	"time"

	"devflow/internal/action"
	"devflow/internal/config"
	"devflow/internal/httperr"
	"devflow/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdle = 5 * time.Minute

// RateLimit applies a per-IP token bucket. At most MaxClients buckets are kept; idle
// ones are evicted.
func RateLimit(cfg config.RateLimit) gin.HandlerFunc {
	perMinute := max(cfg.AuthPerMinute, 1)
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := max(perMinute/2, 1)

	limiters, err := utils.NewTTLCache[*rate.Limiter](max(cfg.MaxClients, 1), limiterIdle)
	if err != nil {
		panic(err)
	}

	return func(c *gin.Context) {
		l := limiters.GetOrCreate(c.ClientIP(), func() *rate.Limiter {
			return rate.NewLimiter(limit, burst)
		})
		if !l.Allow() {
			res := action.FailAPI[any](httperr.NewRequestError(http.StatusTooManyRequests, "Too many requests"))
			c.AbortWithStatusJSON(res.Status, res)
			return
		}
		c.Next()
	}
}
