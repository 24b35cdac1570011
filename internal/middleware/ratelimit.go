package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/ratelimit"
)

// RateLimit throttles by client IP. Limiter failures let the request through.
func RateLimit(l ratelimit.Limiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if !ok {
			httperr.WriteBusiness(c, httperr.ErrBusiness(httperr.CodeRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
