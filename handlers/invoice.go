package handlers

import (
	"fmt"
	"net/http"

	"concierge/models"
	"concierge/services/concierge"
	"concierge/services/listing"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	Service *concierge.Service
}

func (h *InvoiceHandler) ListInvoicesHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var filter listing.RecordFilter[models.InvoiceStatus]
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	rows, err := h.Service.ListInvoices(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, err, "list invoices")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InvoiceHandler) GetInvoiceHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	inv, err := h.Service.GetInvoice(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) DownloadPDFHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id := c.Param("id")
	doc, err := h.Service.InvoicePDF(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err, "render invoice")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+".pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *InvoiceHandler) SendHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	inv, err := h.Service.SendInvoice(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err, "send invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) CancelHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	inv, err := h.Service.CancelInvoice(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err, "cancel invoice")
		return
	}
	c.JSON(http.StatusOK, inv)
}

// ConfirmPaymentHandler records a payment against the invoice.
func (h *InvoiceHandler) ConfirmPaymentHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req concierge.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Service.ConfirmPayment(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "confirm payment")
		return
	}
	c.JSON(http.StatusCreated, p)
}
