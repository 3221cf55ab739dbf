package handlers

import (
	"net/http"

	"concierge/services/concierge"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	Service *concierge.Service
}

func (h *DashboardHandler) GetDashboardHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	metrics, err := h.Service.Dashboard(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "load dashboard")
		return
	}
	c.JSON(http.StatusOK, metrics)
}
