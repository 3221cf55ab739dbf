package middleware

import (
	"net/http"

	"concierge/models"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteAuthorizer decides whether a role may call a path.
type RouteAuthorizer interface {
	CanAccessRoute(role models.Role, path string) bool
}

// RouteGuardMiddleware must run after JWTAuthMiddleware.
func RouteGuardMiddleware(gate RouteAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			unauthorized(c, "Authentication required")
			return
		}
		if !gate.CanAccessRoute(user.Role, c.Request.URL.Path) {
			utils.LoggerFrom(c).Warn("Route denied",
				zap.String("userID", user.ID),
				zap.String("role", string(user.Role)),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		c.Next()
	}
}
