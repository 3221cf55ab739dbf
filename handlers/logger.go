package handlers

import (
	"concierge/middleware"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request logger, tagged with the caller once authenticated.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.LoggerFrom(c)
	if user, ok := middleware.CurrentUser(c); ok {
		return logger.With(zap.String("userID", user.ID), zap.String("role", string(user.Role)))
	}
	return logger
}
