package handlers

import (
	"concierge/services/concierge"
)

// HandlerBundle groups every endpoint handler so routes can be wired from one value.
type HandlerBundle struct {
	Auth          *AuthHandler
	Dashboard     *DashboardHandler
	Conversations *ConversationHandler
	Bookings      *BookingHandler
	Invoices      *InvoiceHandler
	Payments      *PaymentHandler
	Clients       *ClientHandler
	Admin         *AdminHandler
}

// NewHandlerBundle builds all handlers over one service.
func NewHandlerBundle(svc *concierge.Service) *HandlerBundle {
	return &HandlerBundle{
		Auth:          &AuthHandler{Service: svc},
		Dashboard:     &DashboardHandler{Service: svc},
		Conversations: &ConversationHandler{Service: svc},
		Bookings:      &BookingHandler{Service: svc},
		Invoices:      &InvoiceHandler{Service: svc},
		Payments:      &PaymentHandler{Service: svc},
		Clients:       &ClientHandler{Service: svc},
		Admin:         &AdminHandler{Service: svc},
	}
}
