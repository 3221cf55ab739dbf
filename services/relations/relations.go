// Package relations joins the flat tables into the denormalized views handlers return.
// Nothing is cached: every call scans the snapshot it was given.
package relations

import (
	"time"

	"concierge/database/repository/store"
	"concierge/models"
	"concierge/services/lifecycle"
	"concierge/services/sla"
)

// Assembler builds views over one snapshot, evaluating derived fields at Now.
type Assembler struct {
	Tables *store.Tables
	Now    time.Time
}

func New(t *store.Tables, now time.Time) *Assembler {
	return &Assembler{Tables: t, Now: now}
}

func find[T any](rows []T, match func(*T) bool) *T {
	for i := range rows {
		if match(&rows[i]) {
			row := rows[i]
			return &row
		}
	}
	return nil
}

func where[T any](rows []T, match func(*T) bool) []T {
	out := []T{}
	for i := range rows {
		if match(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}

func (a *Assembler) client(id string) *models.Client {
	return find(a.Tables.Clients, func(c *models.Client) bool { return c.ID == id })
}

func (a *Assembler) user(id *string) *models.User {
	if id == nil {
		return nil
	}
	return find(a.Tables.Users, func(u *models.User) bool { return u.ID == *id })
}

func (a *Assembler) invoicesOfBookings(ids map[string]struct{}) []models.Invoice {
	return where(a.Tables.Invoices, func(inv *models.Invoice) bool {
		_, ok := ids[inv.BookingID]
		return ok
	})
}

func (a *Assembler) paymentsOfInvoices(invoices []models.Invoice) []models.Payment {
	ids := make(map[string]struct{}, len(invoices))
	for _, inv := range invoices {
		ids[inv.ID] = struct{}{}
	}
	return where(a.Tables.Payments, func(p *models.Payment) bool {
		_, ok := ids[p.InvoiceID]
		return ok
	})
}

// Conversation returns the joined view of conversation id, or false when it does not exist.
func (a *Assembler) Conversation(id string) (*models.ConversationWithRelations, bool) {
	conv := find(a.Tables.Conversations, func(c *models.Conversation) bool { return c.ID == id })
	if conv == nil {
		return nil, false
	}
	return a.conversationView(conv), true
}

func (a *Assembler) conversationView(conv *models.Conversation) *models.ConversationWithRelations {
	bookings := where(a.Tables.Bookings, func(b *models.Booking) bool { return b.ConversationID == conv.ID })
	bookingIDs := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		bookingIDs[b.ID] = struct{}{}
	}
	invoices := a.invoicesOfBookings(bookingIDs)

	return &models.ConversationWithRelations{
		Conversation:   *conv,
		Client:         a.client(conv.ClientID),
		Assignee:       a.user(conv.AssigneeID),
		Communications: where(a.Tables.Communications, func(m *models.Communication) bool { return m.ConversationID == conv.ID }),
		InternalNotes:  where(a.Tables.InternalNotes, func(n *models.InternalNote) bool { return n.ConversationID == conv.ID }),
		Bookings:       bookings,
		Invoices:       invoices,
		Payments:       a.paymentsOfInvoices(invoices),
		SlaState:       sla.Of(conv, a.Now),
	}
}

func (a *Assembler) Booking(id string) (*models.BookingWithRelations, bool) {
	b := find(a.Tables.Bookings, func(b *models.Booking) bool { return b.ID == id })
	if b == nil {
		return nil, false
	}
	return a.bookingView(b), true
}

func (a *Assembler) bookingView(b *models.Booking) *models.BookingWithRelations {
	invoices := where(a.Tables.Invoices, func(inv *models.Invoice) bool { return inv.BookingID == b.ID })
	payments := a.paymentsOfInvoices(invoices)
	return &models.BookingWithRelations{
		Booking:      *b,
		Client:       a.client(b.ClientID),
		Assignee:     a.user(b.AssigneeID),
		Conversation: find(a.Tables.Conversations, func(c *models.Conversation) bool { return c.ID == b.ConversationID }),
		Invoices:     invoices,
		Payments:     payments,
		BillingState: lifecycle.BillingState(invoices, payments),
	}
}

func (a *Assembler) Invoice(id string) (*models.InvoiceWithRelations, bool) {
	inv := find(a.Tables.Invoices, func(i *models.Invoice) bool { return i.ID == id })
	if inv == nil {
		return nil, false
	}
	return a.invoiceView(inv), true
}

func (a *Assembler) invoiceView(inv *models.Invoice) *models.InvoiceWithRelations {
	return &models.InvoiceWithRelations{
		Invoice:  *inv,
		Client:   a.client(inv.ClientID),
		Booking:  find(a.Tables.Bookings, func(b *models.Booking) bool { return b.ID == inv.BookingID }),
		Payments: where(a.Tables.Payments, func(p *models.Payment) bool { return p.InvoiceID == inv.ID }),
	}
}

func (a *Assembler) Payment(id string) (*models.PaymentWithRelations, bool) {
	p := find(a.Tables.Payments, func(p *models.Payment) bool { return p.ID == id })
	if p == nil {
		return nil, false
	}
	return a.paymentView(p), true
}

func (a *Assembler) paymentView(p *models.Payment) *models.PaymentWithRelations {
	inv := find(a.Tables.Invoices, func(i *models.Invoice) bool { return i.ID == p.InvoiceID })
	var booking *models.Booking
	if inv != nil {
		booking = find(a.Tables.Bookings, func(b *models.Booking) bool { return b.ID == inv.BookingID })
	}
	return &models.PaymentWithRelations{
		Payment: *p,
		Invoice: inv,
		Client:  a.client(p.ClientID),
		Booking: booking,
	}
}

// AllConversations maps Conversation over the table in insertion order.
func (a *Assembler) AllConversations() []models.ConversationWithRelations {
	out := make([]models.ConversationWithRelations, 0, len(a.Tables.Conversations))
	for i := range a.Tables.Conversations {
		out = append(out, *a.conversationView(&a.Tables.Conversations[i]))
	}
	return out
}

func (a *Assembler) AllBookings() []models.BookingWithRelations {
	out := make([]models.BookingWithRelations, 0, len(a.Tables.Bookings))
	for i := range a.Tables.Bookings {
		out = append(out, *a.bookingView(&a.Tables.Bookings[i]))
	}
	return out
}

func (a *Assembler) AllInvoices() []models.InvoiceWithRelations {
	out := make([]models.InvoiceWithRelations, 0, len(a.Tables.Invoices))
	for i := range a.Tables.Invoices {
		out = append(out, *a.invoiceView(&a.Tables.Invoices[i]))
	}
	return out
}

func (a *Assembler) AllPayments() []models.PaymentWithRelations {
	out := make([]models.PaymentWithRelations, 0, len(a.Tables.Payments))
	for i := range a.Tables.Payments {
		out = append(out, *a.paymentView(&a.Tables.Payments[i]))
	}
	return out
}
