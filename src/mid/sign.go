package mid

import (
	"crypto/subtle"
	"github.com/gin-gonic/gin"
	"github.com/jom-io/gorig/apix/response"
	"strings"
)

// Sign checks the bearer token, or the token query parameter, against token.
// An empty token disables the check.
func Sign(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		sign := c.GetHeader("Authorization")
		if sign == "" || !strings.HasPrefix(sign, "Bearer ") {
			if c.Query("token") == "" {
				response.ErrorForbidden(c)
				c.Abort()
				return
			}
			sign = c.Query("token")
		}
		sign = strings.TrimPrefix(sign, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(sign), []byte(token)) != 1 {
			response.ErrorForbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
