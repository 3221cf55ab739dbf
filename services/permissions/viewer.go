// Package permissions decides what a staff member may see.
//
// Admins and VIP managers see everything. A manager sees a record only when its
// client is not VIP and the record is assigned to them. Invoices and payments
// have no assignee of their own and inherit visibility from their booking.
package permissions

import (
	"concierge/models"
)

// Viewer is the single capability check for one user against one client table.
// Build it once per request and pass it wherever rows are filtered.
type Viewer struct {
	User       models.User
	vipClients map[string]struct{}
}

// NewViewer indexes the VIP clients so every check is a map lookup.
func NewViewer(user models.User, clients []models.Client) *Viewer {
	vip := make(map[string]struct{})
	for _, c := range clients {
		if c.IsVip {
			vip[c.ID] = struct{}{}
		}
	}
	return &Viewer{User: user, vipClients: vip}
}

func (v *Viewer) IsPrivileged() bool {
	return v.User.Role.IsPrivileged()
}

func (v *Viewer) IsAdmin() bool {
	return v.User.Role == models.RoleAdmin
}

func (v *Viewer) isVip(clientID string) bool {
	_, ok := v.vipClients[clientID]
	return ok
}

// hidesVip reports whether clientID is masked for this viewer.
func (v *Viewer) hidesVip(clientID string) bool {
	return !v.IsPrivileged() && v.isVip(clientID)
}

func (v *Viewer) owns(clientID string, assigneeID *string) bool {
	if v.IsPrivileged() {
		return true
	}
	return !v.isVip(clientID) && assigneeID != nil && *assigneeID == v.User.ID
}

func (v *Viewer) CanSeeConversation(c *models.Conversation) bool {
	return v.owns(c.ClientID, c.AssigneeID)
}

func (v *Viewer) CanSeeBooking(b *models.Booking) bool {
	return v.owns(b.ClientID, b.AssigneeID)
}

// CanSeeInvoice follows the invoice to its booking. An invoice whose booking is missing is hidden
// from non-privileged viewers.
func (v *Viewer) CanSeeInvoice(inv *models.Invoice, bookings []models.Booking) bool {
	if v.IsPrivileged() {
		return true
	}
	if v.hidesVip(inv.ClientID) {
		return false
	}
	for i := range bookings {
		if bookings[i].ID == inv.BookingID {
			return v.CanSeeBooking(&bookings[i])
		}
	}
	return false
}

func (v *Viewer) CanSeePayment(p *models.Payment, invoices []models.Invoice, bookings []models.Booking) bool {
	if v.IsPrivileged() {
		return true
	}
	if v.hidesVip(p.ClientID) {
		return false
	}
	for i := range invoices {
		if invoices[i].ID == p.InvoiceID {
			return v.CanSeeInvoice(&invoices[i], bookings)
		}
	}
	return false
}

// CanSeeClient is true for privileged viewers, otherwise only when the client has a
// conversation the viewer can see.
func (v *Viewer) CanSeeClient(clientID string, conversations []models.Conversation) bool {
	if v.IsPrivileged() {
		return true
	}
	if v.isVip(clientID) {
		return false
	}
	for i := range conversations {
		if conversations[i].ClientID == clientID && v.CanSeeConversation(&conversations[i]) {
			return true
		}
	}
	return false
}

func keep[T any](rows []T, pred func(*T) bool) []T {
	out := make([]T, 0, len(rows))
	for i := range rows {
		if pred(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

func (v *Viewer) FilterConversations(rows []models.Conversation) []models.Conversation {
	return keep(rows, v.CanSeeConversation)
}

func (v *Viewer) FilterBookings(rows []models.Booking) []models.Booking {
	return keep(rows, v.CanSeeBooking)
}

// PermittedBookingIDs is the set of booking ids the viewer can see.
func (v *Viewer) PermittedBookingIDs(bookings []models.Booking) map[string]struct{} {
	ids := make(map[string]struct{}, len(bookings))
	for i := range bookings {
		if v.CanSeeBooking(&bookings[i]) {
			ids[bookings[i].ID] = struct{}{}
		}
	}
	return ids
}

// FilterInvoices keeps invoices whose booking is permitted. The booking set is built once.
func (v *Viewer) FilterInvoices(invoices []models.Invoice, bookings []models.Booking) []models.Invoice {
	if v.IsPrivileged() {
		return keep(invoices, func(*models.Invoice) bool { return true })
	}
	allowed := v.PermittedBookingIDs(bookings)
	return keep(invoices, func(inv *models.Invoice) bool {
		_, ok := allowed[inv.BookingID]
		return ok && !v.hidesVip(inv.ClientID)
	})
}

// FilterPayments walks payment -> invoice -> booking using id sets, one pass per table.
func (v *Viewer) FilterPayments(payments []models.Payment, invoices []models.Invoice, bookings []models.Booking) []models.Payment {
	if v.IsPrivileged() {
		return keep(payments, func(*models.Payment) bool { return true })
	}
	allowed := make(map[string]struct{})
	for _, inv := range v.FilterInvoices(invoices, bookings) {
		allowed[inv.ID] = struct{}{}
	}
	return keep(payments, func(p *models.Payment) bool {
		_, ok := allowed[p.InvoiceID]
		return ok && !v.hidesVip(p.ClientID)
	})
}

// FilterClients keeps the clients the viewer can see, given the full conversation table.
func (v *Viewer) FilterClients(clients []models.Client, conversations []models.Conversation) []models.Client {
	if v.IsPrivileged() {
		return keep(clients, func(*models.Client) bool { return true })
	}
	withConv := make(map[string]struct{})
	for _, c := range v.FilterConversations(conversations) {
		withConv[c.ClientID] = struct{}{}
	}
	return keep(clients, func(c *models.Client) bool {
		_, ok := withConv[c.ID]
		return ok
	})
}

// MaskVipConversations drops rows tied to VIP clients for non-privileged viewers.
func (v *Viewer) MaskVipConversations(rows []models.Conversation) []models.Conversation {
	return keep(rows, func(c *models.Conversation) bool { return !v.hidesVip(c.ClientID) })
}

func (v *Viewer) MaskVipBookings(rows []models.Booking) []models.Booking {
	return keep(rows, func(b *models.Booking) bool { return !v.hidesVip(b.ClientID) })
}

func (v *Viewer) MaskVipInvoices(rows []models.Invoice) []models.Invoice {
	return keep(rows, func(inv *models.Invoice) bool { return !v.hidesVip(inv.ClientID) })
}

func (v *Viewer) MaskVipPayments(rows []models.Payment) []models.Payment {
	return keep(rows, func(p *models.Payment) bool { return !v.hidesVip(p.ClientID) })
}

// MaskVipViews is the same masking for already joined conversation views.
func (v *Viewer) MaskVipViews(rows []models.ConversationWithRelations) []models.ConversationWithRelations {
	return keep(rows, func(c *models.ConversationWithRelations) bool { return !v.hidesVip(c.ClientID) })
}
