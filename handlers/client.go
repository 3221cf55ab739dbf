package handlers

import (
	"net/http"

	"concierge/services/concierge"
	"concierge/services/listing"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	Service *concierge.Service
}

func (h *ClientHandler) ListClientsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var filter listing.ClientFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	rows, err := h.Service.ListClients(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, err, "list clients")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ClientHandler) GetClientHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	detail, err := h.Service.GetClient(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch client")
		return
	}
	c.JSON(http.StatusOK, detail)
}
