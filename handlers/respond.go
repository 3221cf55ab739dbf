package handlers

import (
	"errors"
	"net/http"

	"concierge/middleware"
	"concierge/models"
	"concierge/services/concierge"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const forbiddenMessage = "You do not have permission to access this resource"

// respondError maps service errors to status codes. Anything unrecognised is a 500.
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, concierge.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, concierge.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, forbiddenMessage, "")
	case errors.Is(err, concierge.ErrIllegalTransition):
		utils.JSONError(c, http.StatusConflict, "Illegal status transition", err.Error())
	case errors.Is(err, concierge.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, concierge.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", "")
	case errors.Is(err, concierge.ErrInactiveUser):
		utils.JSONError(c, http.StatusForbidden, "Account is inactive", "")
	case errors.Is(err, concierge.ErrStorageUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "File uploads are unavailable", "")
	default:
		getLogger(c).Error("Request failed", zap.String("action", action), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to "+action, "")
	}
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}

// currentUser reads the authenticated user. Routes without the auth middleware never call it.
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
	}
	return user, ok
}
