package concierge

import (
	"context"
	"fmt"
	"math"
	"time"

	"concierge/models"
	"concierge/services/lifecycle"
	"concierge/utils"
)

// InvoiceInput is the billable content of a new invoice. TaxRate is a percentage.
type InvoiceInput struct {
	LineItems []models.InvoiceLineItem `json:"lineItems"`
	TaxRate   float64                  `json:"taxRate"`
	DueDate   time.Time                `json:"dueDate"`
}

func (s *Service) visibleBooking(ctx context.Context, user models.User, id string) (*models.Booking, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	b, err := pick(t.Bookings, id, bookingID, "booking")
	if err != nil {
		return nil, err
	}
	if !v.CanSeeBooking(b) {
		return nil, ErrForbidden
	}
	return b, nil
}

// editable refuses changes to bookings that have reached a terminal state.
func editable(b *models.Booking) error {
	if lifecycle.BookingGraph.IsTerminal(b.Status) {
		return fmt.Errorf("%w: booking %s is %s", ErrIllegalTransition, b.ID, b.Status)
	}
	return nil
}

func (s *Service) saveBooking(ctx context.Context, user models.User, b *models.Booking, from models.BookingStatus, eventType string, data map[string]any) error {
	if err := s.Store.SaveBooking(ctx, b); err != nil {
		return err
	}
	s.publish(ctx, eventType, b.ID, user.ID, data)
	if b.Status != from && eventType != models.EventBookingStatusChanged {
		s.publish(ctx, models.EventBookingStatusChanged, b.ID, user.ID, map[string]any{"from": from, "to": b.Status})
	}
	return nil
}

// TransitionBooking applies a table-checked move. The paid to scheduled step is never
// requested directly; it follows from AutoSchedule.
func (s *Service) TransitionBooking(ctx context.Context, user models.User, id string, target models.BookingStatus) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.visibleBooking(ctx, user, id)
	if err != nil {
		return nil, err
	}
	from := b.Status
	if !lifecycle.ApplyBookingTransition(b, target, s.Now()) {
		return nil, illegal("booking", id, from, target)
	}
	if err := s.saveBooking(ctx, user, b, from, models.EventBookingStatusChanged, map[string]any{"from": from, "to": b.Status}); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) AssignBooking(ctx context.Context, user models.User, id string, assigneeID *string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.visibleBooking(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := editable(b); err != nil {
		return nil, err
	}
	if err := s.activeAssignee(ctx, assigneeID); err != nil {
		return nil, err
	}
	now := s.Now()
	from := b.Status
	b.AssigneeID = assigneeID
	b.UpdatedAt = now
	lifecycle.AutoSchedule(b, now)
	if err := s.saveBooking(ctx, user, b, from, models.EventBookingUpdated, map[string]any{"assigneeId": assigneeID}); err != nil {
		return nil, err
	}
	return b, nil
}

// RescheduleBooking sets or clears the execution date.
func (s *Service) RescheduleBooking(ctx context.Context, user models.User, id string, executionAt *time.Time) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.visibleBooking(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := editable(b); err != nil {
		return nil, err
	}
	now := s.Now()
	from := b.Status
	b.ExecutionAt = executionAt
	b.UpdatedAt = now
	lifecycle.AutoSchedule(b, now)
	if err := s.saveBooking(ctx, user, b, from, models.EventBookingUpdated, map[string]any{"executionAt": executionAt}); err != nil {
		return nil, err
	}
	return b, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// InvoiceTotals computes subtotal, tax and total, each rounded to the cent.
func InvoiceTotals(items []models.InvoiceLineItem, taxRate float64) (subtotal, tax, total float64) {
	for _, it := range items {
		subtotal += it.Quantity * it.UnitPrice
	}
	subtotal = roundCents(subtotal)
	tax = roundCents(subtotal * taxRate / 100)
	total = roundCents(subtotal + tax)
	return subtotal, tax, total
}

func validateInvoiceInput(in InvoiceInput) error {
	if len(in.LineItems) == 0 {
		return invalid("at least one line item is required")
	}
	for i, it := range in.LineItems {
		if it.Description == "" {
			return invalid(fmt.Sprintf("line item %d has no description", i+1))
		}
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return invalid(fmt.Sprintf("line item %d has an invalid quantity or price", i+1))
		}
	}
	if in.TaxRate < 0 || in.TaxRate > 100 {
		return invalid("tax rate must be between 0 and 100")
	}
	if in.DueDate.IsZero() {
		return invalid("due date is required")
	}
	return nil
}

// CreateInvoice drafts an invoice against a booking that is not cancelled or completed.
func (s *Service) CreateInvoice(ctx context.Context, user models.User, bookingID string, in InvoiceInput) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.visibleBooking(ctx, user, bookingID)
	if err != nil {
		return nil, err
	}
	if err := editable(b); err != nil {
		return nil, err
	}
	if err := validateInvoiceInput(in); err != nil {
		return nil, err
	}

	now := s.Now()
	subtotal, tax, total := InvoiceTotals(in.LineItems, in.TaxRate)
	inv := &models.Invoice{
		ID:        utils.NewID("inv"),
		BookingID: b.ID,
		ClientID:  b.ClientID,
		Status:    models.InvoiceDraft,
		LineItems: in.LineItems,
		Subtotal:  subtotal,
		TaxRate:   in.TaxRate,
		TaxAmount: tax,
		Total:     total,
		DueDate:   in.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventInvoiceCreated, inv.ID, user.ID, map[string]any{"bookingId": b.ID, "total": total})
	return inv, nil
}
