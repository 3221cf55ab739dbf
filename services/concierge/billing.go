package concierge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"concierge/models"
	"concierge/services/lifecycle"
	"concierge/services/payment"
	"concierge/utils"

	"go.uber.org/zap"
)

// PaymentInput confirms a payment against an invoice. A zero Amount pays the invoice total;
// any other amount must equal it.
type PaymentInput struct {
	Method models.PaymentMethod `json:"method"`
	Amount float64              `json:"amount"`
}

// systemActor attributes events raised by background jobs.
const systemActor = "system"

func (s *Service) visibleInvoice(ctx context.Context, user models.User, id string) (*models.Invoice, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	inv, err := pick(t.Invoices, id, invoiceID, "invoice")
	if err != nil {
		return nil, err
	}
	if !v.CanSeeInvoice(inv, t.Bookings) {
		return nil, ErrForbidden
	}
	return inv, nil
}

func (s *Service) transitionInvoice(ctx context.Context, actorID string, inv *models.Invoice, target models.InvoiceStatus) error {
	from := inv.Status
	if !lifecycle.ApplyInvoiceTransition(inv, target, s.Now()) {
		return illegal("invoice", inv.ID, from, target)
	}
	if err := s.Store.SaveInvoice(ctx, inv); err != nil {
		return err
	}
	s.publish(ctx, models.EventInvoiceStatusChanged, inv.ID, actorID, map[string]any{"from": from, "to": target})
	return nil
}

// SendInvoice issues a draft invoice. A draft booking moves on to awaiting payment with it.
func (s *Service) SendInvoice(ctx context.Context, user models.User, id string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.visibleInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.transitionInvoice(ctx, user.ID, inv, models.InvoiceSent); err != nil {
		return nil, err
	}

	b, err := s.Store.GetBooking(ctx, inv.BookingID)
	if err != nil {
		s.Logger.Warn("Sent invoice has no booking", zap.String("invoiceID", inv.ID), zap.Error(err))
		return inv, nil
	}
	if b.Status == models.BookingDraft {
		from := b.Status
		lifecycle.ApplyBookingTransition(b, models.BookingAwaitingPayment, s.Now())
		if err := s.saveBooking(ctx, user, b, from, models.EventBookingStatusChanged, map[string]any{"from": from, "to": b.Status}); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func (s *Service) CancelInvoice(ctx context.Context, user models.User, id string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, err := s.visibleInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.transitionInvoice(ctx, user.ID, inv, models.InvoiceCancelled); err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkOverdueInvoices moves every sent invoice whose due date has passed to overdue.
// It runs without a viewer and returns how many invoices changed.
func (s *Service) MarkOverdueInvoices(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoices, err := s.Store.ListInvoices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	marked := 0
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != models.InvoiceSent || inv.DueDate.IsZero() || !inv.DueDate.Before(now) {
			continue
		}
		if err := s.transitionInvoice(ctx, systemActor, inv, models.InvoiceOverdue); err != nil {
			return marked, err
		}
		marked++
	}
	if marked > 0 {
		s.Logger.Info("Marked invoices overdue", zap.Int("count", marked))
	}
	return marked, nil
}

// settleInvoice applies a succeeded payment: the invoice is paid, an awaiting-payment
// booking becomes paid (and scheduled when it can be), and the client's spend grows.
func (s *Service) settleInvoice(ctx context.Context, user models.User, inv *models.Invoice, amount float64) error {
	if inv.Status != models.InvoicePaid {
		if err := s.transitionInvoice(ctx, user.ID, inv, models.InvoicePaid); err != nil {
			return err
		}
	}

	b, err := s.Store.GetBooking(ctx, inv.BookingID)
	if err == nil && b.Status == models.BookingAwaitingPayment {
		from := b.Status
		lifecycle.ApplyBookingTransition(b, models.BookingPaid, s.Now())
		if err := s.saveBooking(ctx, user, b, from, models.EventBookingStatusChanged, map[string]any{"from": from, "to": b.Status}); err != nil {
			return err
		}
	}

	return s.adjustSpend(ctx, inv.ClientID, amount)
}

func (s *Service) adjustSpend(ctx context.Context, clientID string, delta float64) error {
	c, err := s.Store.GetClient(ctx, clientID)
	if err != nil {
		s.Logger.Warn("Payment for unknown client", zap.String("clientID", clientID), zap.Error(err))
		return nil
	}
	c.TotalSpend = roundCents(c.TotalSpend + delta)
	if c.TotalSpend < 0 {
		c.TotalSpend = 0
	}
	c.UpdatedAt = s.Now()
	return s.Store.SaveClient(ctx, c)
}

// pendingPayment returns the payment on the invoice that is still waiting to settle, if any.
func pendingPayment(payments []models.Payment, invoiceID string) *models.Payment {
	for i := range payments {
		if payments[i].InvoiceID == invoiceID && payments[i].Status == models.PaymentPending {
			return &payments[i]
		}
	}
	return nil
}

// ConfirmPayment records a payment against a sent or overdue invoice through the processor.
// The amount must cover the invoice total exactly, and only one payment may be pending per invoice.
func (s *Service) ConfirmPayment(ctx context.Context, user models.User, id string, in PaymentInput) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	inv, err := pick(t.Invoices, id, invoiceID, "invoice")
	if err != nil {
		return nil, err
	}
	if !v.CanSeeInvoice(inv, t.Bookings) {
		return nil, ErrForbidden
	}
	if !inv.Status.IsReceivable() {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrIllegalTransition, inv.ID, inv.Status)
	}
	if p := pendingPayment(t.Payments, inv.ID); p != nil {
		return nil, fmt.Errorf("%w: invoice %s already has pending payment %s", ErrIllegalTransition, inv.ID, p.ID)
	}
	if !in.Method.Valid() {
		return nil, invalid(fmt.Sprintf("unsupported payment method %q", in.Method))
	}
	amount := roundCents(in.Amount)
	if in.Amount == 0 {
		amount = roundCents(inv.Total)
	}
	if amount < 0 {
		return nil, invalid("amount cannot be negative")
	}
	if amount != roundCents(inv.Total) {
		return nil, invalid(fmt.Sprintf("amount %.2f does not match invoice total %.2f", amount, inv.Total))
	}

	res, err := s.Payments.Process(ctx, payment.Request{
		InvoiceID: inv.ID,
		ClientID:  inv.ClientID,
		Amount:    amount,
		Method:    in.Method,
		Currency:  s.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("payment processing failed: %w", err)
	}

	now := s.Now()
	p := &models.Payment{
		ID:          utils.NewID("pay"),
		InvoiceID:   inv.ID,
		ClientID:    inv.ClientID,
		Status:      res.Status,
		Method:      in.Method,
		Amount:      amount,
		ExternalRef: res.ExternalRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Status != models.PaymentPending {
		processed := now
		p.ProcessedAt = &processed
	}
	if err := s.Store.SavePayment(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventPaymentRecorded, p.ID, user.ID, map[string]any{
		"invoiceId": inv.ID, "status": p.Status, "amount": amount,
	})

	if p.Status == models.PaymentSucceeded {
		if err := s.settleInvoice(ctx, user, inv, amount); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *Service) visiblePayment(ctx context.Context, user models.User, id string) (*models.Payment, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	p, err := pick(t.Payments, id, paymentID, "payment")
	if err != nil {
		return nil, err
	}
	if !v.CanSeePayment(p, t.Invoices, t.Bookings) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) transitionPayment(ctx context.Context, user models.User, p *models.Payment, target models.PaymentStatus) error {
	from := p.Status
	if !lifecycle.ApplyPaymentTransition(p, target, s.Now()) {
		return illegal("payment", p.ID, from, target)
	}
	if err := s.Store.SavePayment(ctx, p); err != nil {
		return err
	}
	s.publish(ctx, models.EventPaymentStatusChanged, p.ID, user.ID, map[string]any{"from": from, "to": target})
	return nil
}

// SettlePayment resolves a pending payment. Success settles the invoice as ConfirmPayment does,
// so it is refused once the invoice is no longer receivable.
func (s *Service) SettlePayment(ctx context.Context, user models.User, id string, succeeded bool) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.visiblePayment(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !succeeded {
		if err := s.transitionPayment(ctx, user, p, models.PaymentFailed); err != nil {
			return nil, err
		}
		return p, nil
	}

	inv, err := s.Store.GetInvoice(ctx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.IsReceivable() {
		return nil, fmt.Errorf("%w: payment %s settles invoice %s which is %s", ErrIllegalTransition, p.ID, inv.ID, inv.Status)
	}
	if err := s.transitionPayment(ctx, user, p, models.PaymentSucceeded); err != nil {
		return nil, err
	}
	if err := s.settleInvoice(ctx, user, inv, p.Amount); err != nil {
		return nil, err
	}
	return p, nil
}

// RefundPayment reverses a succeeded payment. The invoice keeps its status.
func (s *Service) RefundPayment(ctx context.Context, user models.User, id, reason string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("refund reason is required")
	}
	p, err := s.visiblePayment(ctx, user, id)
	if err != nil {
		return nil, err
	}
	p.RefundReason = reason
	if err := s.transitionPayment(ctx, user, p, models.PaymentRefunded); err != nil {
		return nil, err
	}
	if err := s.adjustSpend(ctx, p.ClientID, -p.Amount); err != nil {
		return nil, err
	}
	return p, nil
}
