// Package dashboard aggregates the per-viewer dashboard from a table snapshot.
package dashboard

import (
	"fmt"
	"sort"
	"time"

	"concierge/database/repository/store"
	"concierge/models"
	"concierge/services/permissions"
	"concierge/services/sla"
)

const (
	radarWindow        = 7 * 24 * time.Hour
	unassignedAfter    = 24 * time.Hour
	awaitingStaleAfter = 48 * time.Hour
	topRiskyInvoices   = 5
)

// AgeLabel renders the whole hours between since and now as "{n}h", or "{n}d" from a day up.
func AgeLabel(since, now time.Time) string {
	hours := int(now.Sub(since) / time.Hour)
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dd", hours/24)
}

func inboxLink(id string) string { return "/inbox?id=" + id }

// Compute builds the dashboard for user. It reads t and never writes to it.
func Compute(user models.User, t *store.Tables, now time.Time) models.DashboardMetrics {
	v := permissions.NewViewer(user, t.Clients)

	bookings := v.FilterBookings(v.MaskVipBookings(t.Bookings))
	conversations := v.FilterConversations(v.MaskVipConversations(t.Conversations))
	invoices := v.FilterInvoices(v.MaskVipInvoices(t.Invoices), bookings)
	payments := v.FilterPayments(v.MaskVipPayments(t.Payments), invoices, bookings)

	var active, breached []models.Conversation
	for _, c := range conversations {
		if !c.Status.IsActive() {
			continue
		}
		active = append(active, c)
		if sla.Of(&c, now) == models.SlaBreached {
			breached = append(breached, c)
		}
	}

	var receivable, pending, paid, overdue, failed, refunded float64
	for _, inv := range invoices {
		switch inv.Status {
		case models.InvoiceSent:
			receivable += inv.Total
		case models.InvoiceOverdue:
			receivable += inv.Total
			overdue += inv.Total
		case models.InvoicePaid:
			paid += inv.Total
		}
	}
	for _, p := range payments {
		switch p.Status {
		case models.PaymentPending:
			pending += p.Amount
		case models.PaymentFailed:
			failed += p.Amount
		case models.PaymentRefunded:
			refunded += p.Amount
		}
	}

	upcoming := upcomingBookings(bookings, now)

	return models.DashboardMetrics{
		KpiStrip: models.KpiStrip{
			ActiveConversations: len(active),
			SlaBreached:         len(breached),
			AccountsReceivable:  receivable,
			PendingPayments:     pending,
			Upcoming7d:          len(upcoming),
		},
		ActionQueue: actionQueue(conversations, breached, payments, now),
		CashRisk: models.CashRisk{
			PaidRevenue:        paid,
			AccountsReceivable: receivable,
			OverdueAmount:      overdue,
			PendingAmount:      pending,
			FailedAmount:       failed,
			RefundedAmount:     refunded,
			TopRiskyInvoices:   riskyInvoices(invoices, t.Clients),
		},
		ExecutionRadar: radar(upcoming, invoices, t, now),
	}
}

// upcomingBookings are open bookings executing within [now, now+7d].
func upcomingBookings(bookings []models.Booking, now time.Time) []models.Booking {
	end := now.Add(radarWindow)
	out := []models.Booking{}
	for _, b := range bookings {
		if b.ExecutionAt == nil || b.Status == models.BookingCompleted || b.Status == models.BookingCancelled {
			continue
		}
		if b.ExecutionAt.Before(now) || b.ExecutionAt.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func actionQueue(conversations, breached []models.Conversation, payments []models.Payment, now time.Time) models.ActionQueue {
	q := models.ActionQueue{
		SlaBreached:                []models.ActionQueueItem{},
		NewUnassignedOver24h:       []models.ActionQueueItem{},
		AwaitingClientStaleOver48h: []models.ActionQueueItem{},
		FailedPayments:             []models.ActionQueueFailedPayment{},
	}
	item := func(c models.Conversation, since time.Time) models.ActionQueueItem {
		return models.ActionQueueItem{ID: c.ID, Title: c.Title, Priority: c.Priority, Age: AgeLabel(since, now), Link: inboxLink(c.ID)}
	}

	for _, c := range breached {
		since := c.SlaDueAt
		if since.IsZero() {
			since = c.CreatedAt
		}
		q.SlaBreached = append(q.SlaBreached, item(c, since))
	}
	for _, c := range conversations {
		switch {
		case c.Status == models.ConversationNew && c.AssigneeID == nil && now.Sub(c.CreatedAt) > unassignedAfter:
			q.NewUnassignedOver24h = append(q.NewUnassignedOver24h, item(c, c.CreatedAt))
		case c.Status == models.ConversationAwaitingClient && now.Sub(c.UpdatedAt) > awaitingStaleAfter:
			q.AwaitingClientStaleOver48h = append(q.AwaitingClientStaleOver48h, item(c, c.UpdatedAt))
		}
	}
	for _, p := range payments {
		if p.Status == models.PaymentFailed {
			q.FailedPayments = append(q.FailedPayments, models.ActionQueueFailedPayment{
				ID: p.ID, InvoiceID: p.InvoiceID, Amount: p.Amount, Method: p.Method, Link: "/payments?status=failed",
			})
		}
	}
	return q
}

func riskyInvoices(invoices []models.Invoice, clients []models.Client) []models.CashRiskInvoice {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	var risky []models.Invoice
	for _, inv := range invoices {
		if inv.Status.IsReceivable() {
			risky = append(risky, inv)
		}
	}
	sort.SliceStable(risky, func(i, j int) bool { return risky[i].Total > risky[j].Total })
	if len(risky) > topRiskyInvoices {
		risky = risky[:topRiskyInvoices]
	}

	out := make([]models.CashRiskInvoice, 0, len(risky))
	for _, inv := range risky {
		name, ok := names[inv.ClientID]
		if !ok {
			name = "Unknown"
		}
		out = append(out, models.CashRiskInvoice{ID: inv.ID, ClientName: name, Total: inv.Total, Status: inv.Status, DueDate: inv.DueDate})
	}
	return out
}

// radar annotates the upcoming bookings with risk flags. The SLA flag looks at the linked
// conversation in the full table, so it is set even when that conversation is hidden.
func radar(upcoming []models.Booking, invoices []models.Invoice, t *store.Tables, now time.Time) []models.ExecutionRadarItem {
	byBooking := make(map[string][]models.Invoice)
	for _, inv := range invoices {
		byBooking[inv.BookingID] = append(byBooking[inv.BookingID], inv)
	}
	convs := make(map[string]*models.Conversation, len(t.Conversations))
	for i := range t.Conversations {
		convs[t.Conversations[i].ID] = &t.Conversations[i]
	}
	userNames := make(map[string]string, len(t.Users))
	for _, u := range t.Users {
		userNames[u.ID] = u.Name
	}

	sorted := make([]models.Booking, len(upcoming))
	copy(sorted, upcoming)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ExecutionAt.Before(*sorted[j].ExecutionAt) })

	out := make([]models.ExecutionRadarItem, 0, len(sorted))
	for _, b := range sorted {
		linked := byBooking[b.ID]
		unpaid := len(linked) == 0
		for _, inv := range linked {
			if inv.Status != models.InvoicePaid {
				unpaid = true
				break
			}
		}
		slaRisk := false
		if c, ok := convs[b.ConversationID]; ok {
			slaRisk = sla.Of(c, now) == models.SlaBreached
		}
		item := models.ExecutionRadarItem{
			ID:             b.ID,
			Title:          b.Title,
			ExecutionAt:    *b.ExecutionAt,
			AssigneeID:     b.AssigneeID,
			PaymentRisk:    b.Status == models.BookingAwaitingPayment || unpaid,
			AssignmentRisk: b.AssigneeID == nil,
			SlaRisk:        slaRisk,
			Link:           "/bookings/" + b.ID,
		}
		if b.AssigneeID != nil {
			item.AssigneeName = userNames[*b.AssigneeID]
		}
		out = append(out, item)
	}
	return out
}
