// Package listing filters and orders the list views.
package listing

import (
	"strings"
	"time"

	"concierge/models"
)

// ConversationFilter narrows the inbox. Empty fields do not filter.
type ConversationFilter struct {
	Search      string                      `form:"search"`
	Statuses    []models.ConversationStatus `form:"status"`
	Channels    []models.Channel            `form:"channel"`
	AssigneeIDs []string                    `form:"assignee"`
	VipOnly     bool                        `form:"vipOnly"`
	SlaStates   []models.SlaState           `form:"sla"`
	DateFrom    time.Time                   `form:"from" time_format:"2006-01-02"`
	DateTo      time.Time                   `form:"to" time_format:"2006-01-02"`
}

// RecordFilter narrows bookings, invoices and payments.
type RecordFilter[S ~string] struct {
	Search   string    `form:"search"`
	Statuses []S       `form:"status"`
	DateFrom time.Time `form:"from" time_format:"2006-01-02"`
	DateTo   time.Time `form:"to" time_format:"2006-01-02"`
}

type ClientFilter struct {
	Search     string    `form:"search"`
	VipOnly    bool      `form:"vipOnly"`
	ActiveOnly bool      `form:"activeOnly"`
	DateFrom   time.Time `form:"from" time_format:"2006-01-02"`
	DateTo     time.Time `form:"to" time_format:"2006-01-02"`
}

func contains[S comparable](set []S, v S) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// matchesAny reports whether q is a case-insensitive substring of any field.
func matchesAny(q string, fields ...string) bool {
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// inRange treats a zero bound as open. Both bounds are inclusive.
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}

func clientName(c *models.Client) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func FilterConversations(rows []models.ConversationWithRelations, f ConversationFilter) []models.ConversationWithRelations {
	out := make([]models.ConversationWithRelations, 0, len(rows))
	for _, r := range rows {
		if f.Search != "" && !matchesAny(f.Search, r.ID, r.Title, clientName(r.Client), r.PickupLocation, r.DropoffLocation) {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
			continue
		}
		if len(f.Channels) > 0 && !contains(f.Channels, r.Channel) {
			continue
		}
		if len(f.AssigneeIDs) > 0 && (r.AssigneeID == nil || !contains(f.AssigneeIDs, *r.AssigneeID)) {
			continue
		}
		if f.VipOnly && (r.Client == nil || !r.Client.IsVip) {
			continue
		}
		if len(f.SlaStates) > 0 && !contains(f.SlaStates, r.SlaState) {
			continue
		}
		if !inRange(r.CreatedAt, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func FilterBookings(rows []models.BookingWithRelations, f RecordFilter[models.BookingStatus]) []models.BookingWithRelations {
	out := make([]models.BookingWithRelations, 0, len(rows))
	for _, r := range rows {
		if f.Search != "" && !matchesAny(f.Search, r.ID, r.Title, clientName(r.Client), r.Location) {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
			continue
		}
		if !inRange(r.CreatedAt, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func FilterInvoices(rows []models.InvoiceWithRelations, f RecordFilter[models.InvoiceStatus]) []models.InvoiceWithRelations {
	out := make([]models.InvoiceWithRelations, 0, len(rows))
	for _, r := range rows {
		if f.Search != "" && !matchesAny(f.Search, r.ID, clientName(r.Client)) {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
			continue
		}
		if !inRange(r.CreatedAt, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func FilterPayments(rows []models.PaymentWithRelations, f RecordFilter[models.PaymentStatus]) []models.PaymentWithRelations {
	out := make([]models.PaymentWithRelations, 0, len(rows))
	for _, r := range rows {
		if f.Search != "" && !matchesAny(f.Search, r.ID, clientName(r.Client), r.InvoiceID) {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, r.Status) {
			continue
		}
		if !inRange(r.CreatedAt, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func FilterClients(rows []models.ClientRow, f ClientFilter) []models.ClientRow {
	out := make([]models.ClientRow, 0, len(rows))
	for _, r := range rows {
		if f.Search != "" && !matchesAny(f.Search, r.Name, r.Email, r.Company) {
			continue
		}
		if f.VipOnly && !r.IsVip {
			continue
		}
		if f.ActiveOnly && !r.IsActive {
			continue
		}
		if !inRange(r.CreatedAt, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, r)
	}
	return out
}
