package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// clientKey identifies the caller for rate limiting and request logs. It goes through
// gin's ClientIP, so X-Forwarded-For and X-Real-IP count only when the request came
// from a proxy the engine trusts.
func clientKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
