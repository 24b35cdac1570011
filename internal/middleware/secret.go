package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SharedSecret rejects requests whose header does not match secret.
// An empty secret refuses everything unless allowEmpty is set.
func SharedSecret(header, secret string, allowEmpty bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			if allowEmpty {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "secret_not_configured"})
			return
		}

		got := c.GetHeader(header)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_secret"})
			return
		}
		c.Next()
	}
}
