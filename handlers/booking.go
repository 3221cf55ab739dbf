package handlers

import (
	"net/http"
	"time"

	"concierge/models"
	"concierge/services/concierge"
	"concierge/services/listing"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Service *concierge.Service
}

func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var filter listing.RecordFilter[models.BookingStatus]
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}
	rows, err := h.Service.ListBookings(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, err, "list bookings")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch booking")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) TransitionHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req statusRequest[models.BookingStatus]
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Service.TransitionBooking(c.Request.Context(), user, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "update booking status")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) AssignHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req assigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Service.AssignBooking(c.Request.Context(), user, c.Param("id"), req.AssigneeID)
	if err != nil {
		respondError(c, err, "assign booking")
		return
	}
	c.JSON(http.StatusOK, b)
}

// ScheduleHandler sets the execution date. A null executionAt clears it.
func (h *BookingHandler) ScheduleHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		ExecutionAt *time.Time `json:"executionAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Service.RescheduleBooking(c.Request.Context(), user, c.Param("id"), req.ExecutionAt)
	if err != nil {
		respondError(c, err, "reschedule booking")
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) CreateInvoiceHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req concierge.InvoiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	inv, err := h.Service.CreateInvoice(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "create invoice")
		return
	}
	c.JSON(http.StatusCreated, inv)
}
