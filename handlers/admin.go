package handlers

import (
	"net/http"

	"concierge/services/concierge"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin-only surface.
type AdminHandler struct {
	Service *concierge.Service
}

// GetAllUsersHandler returns every staff member (password hashes are never serialised).
func (h *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	users, err := h.Service.ListUsers(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// HealthHandler reports the last backend health check.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
