// Package lifecycle holds the status transition graphs and the rules derived from them.
package lifecycle

import (
	"time"

	"concierge/models"
)

// Graph maps every state to the set of states it may move to. An empty set is terminal.
type Graph[S comparable] map[S][]S

// CanTransition reports whether from -> to is an edge of the graph.
func (g Graph[S]) CanTransition(from, to S) bool {
	for _, next := range g[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next returns the legal next states of from, in table order.
func (g Graph[S]) Next(from S) []S {
	out := make([]S, len(g[from]))
	copy(out, g[from])
	return out
}

func (g Graph[S]) IsTerminal(s S) bool {
	return len(g[s]) == 0
}

var ConversationGraph = Graph[models.ConversationStatus]{
	models.ConversationNew:            {models.ConversationInReview},
	models.ConversationInReview:       {models.ConversationAwaitingClient, models.ConversationConverted},
	models.ConversationAwaitingClient: {models.ConversationInReview},
	models.ConversationConverted:      {models.ConversationClosed},
	models.ConversationClosed:         {},
}

// BookingGraph has no paid -> scheduled edge; that move only happens through AutoSchedule.
var BookingGraph = Graph[models.BookingStatus]{
	models.BookingDraft:           {models.BookingAwaitingPayment, models.BookingCancelled},
	models.BookingAwaitingPayment: {models.BookingPaid, models.BookingCancelled},
	models.BookingPaid:            {models.BookingCancelled},
	models.BookingScheduled:       {models.BookingInProgress, models.BookingCancelled},
	models.BookingInProgress:      {models.BookingCompleted},
	models.BookingCompleted:       {},
	models.BookingCancelled:       {},
}

var InvoiceGraph = Graph[models.InvoiceStatus]{
	models.InvoiceDraft:     {models.InvoiceSent, models.InvoiceCancelled},
	models.InvoiceSent:      {models.InvoicePaid, models.InvoiceOverdue, models.InvoiceCancelled},
	models.InvoiceOverdue:   {models.InvoicePaid, models.InvoiceCancelled},
	models.InvoicePaid:      {},
	models.InvoiceCancelled: {},
}

var PaymentGraph = Graph[models.PaymentStatus]{
	models.PaymentPending:   {models.PaymentSucceeded, models.PaymentFailed},
	models.PaymentSucceeded: {models.PaymentRefunded},
	models.PaymentFailed:    {},
	models.PaymentRefunded:  {},
}

// ApplyConversationTransition moves c to target when the graph allows it.
// It returns false and leaves c untouched otherwise.
func ApplyConversationTransition(c *models.Conversation, target models.ConversationStatus, now time.Time) bool {
	if !ConversationGraph.CanTransition(c.Status, target) {
		return false
	}
	c.Status = target
	c.UpdatedAt = now
	return true
}

// ApplyBookingTransition moves b to target when the graph allows it, then re-runs AutoSchedule.
func ApplyBookingTransition(b *models.Booking, target models.BookingStatus, now time.Time) bool {
	if !BookingGraph.CanTransition(b.Status, target) {
		return false
	}
	b.Status = target
	b.UpdatedAt = now
	AutoSchedule(b, now)
	return true
}

func ApplyInvoiceTransition(inv *models.Invoice, target models.InvoiceStatus, now time.Time) bool {
	if !InvoiceGraph.CanTransition(inv.Status, target) {
		return false
	}
	inv.Status = target
	inv.UpdatedAt = now
	if target == models.InvoicePaid {
		paidAt := now
		inv.PaidAt = &paidAt
	}
	return true
}

func ApplyPaymentTransition(p *models.Payment, target models.PaymentStatus, now time.Time) bool {
	if !PaymentGraph.CanTransition(p.Status, target) {
		return false
	}
	p.Status = target
	p.UpdatedAt = now
	if p.ProcessedAt == nil {
		processed := now
		p.ProcessedAt = &processed
	}
	return true
}

// AutoSchedule advances a paid booking with an assignee and an execution date to scheduled.
// It must run after any change to AssigneeID, ExecutionAt, or a move to paid.
// It reports whether it changed the booking; running it twice is the same as running it once.
func AutoSchedule(b *models.Booking, now time.Time) bool {
	if b.Status != models.BookingPaid || b.AssigneeID == nil || b.ExecutionAt == nil || b.ExecutionAt.IsZero() {
		return false
	}
	b.Status = models.BookingScheduled
	b.UpdatedAt = now
	return true
}

// BillingState rolls a booking's invoices and payments up into one state.
// Rules are checked in priority order and the first match wins.
func BillingState(invoices []models.Invoice, payments []models.Payment) models.BillingState {
	if len(invoices) == 0 {
		return models.BillingNoInvoice
	}
	has := func(s models.InvoiceStatus) bool {
		for _, inv := range invoices {
			if inv.Status == s {
				return true
			}
		}
		return false
	}
	switch {
	case has(models.InvoiceOverdue):
		return models.BillingOverdue
	case has(models.InvoicePaid):
		return models.BillingPaid
	case has(models.InvoiceSent):
		for _, p := range payments {
			if p.Status == models.PaymentPending {
				return models.BillingPaymentProcessing
			}
		}
		return models.BillingAwaitingPayment
	}
	return models.BillingInvoiceDraft
}
