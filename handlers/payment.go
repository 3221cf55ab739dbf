package handlers

import (
	"net/http"

	"concierge/models"
	"concierge/services/concierge"
	"concierge/services/listing"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	Service *concierge.Service
}

func (h *PaymentHandler) ListPaymentsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var filter listing.RecordFilter[models.PaymentStatus]
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	rows, err := h.Service.ListPayments(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, err, "list payments")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *PaymentHandler) SettleHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Succeeded *bool `json:"succeeded" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Service.SettlePayment(c.Request.Context(), user, c.Param("id"), *req.Succeeded)
	if err != nil {
		respondError(c, err, "settle payment")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) RefundHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Service.RefundPayment(c.Request.Context(), user, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err, "refund payment")
		return
	}
	c.JSON(http.StatusOK, p)
}
