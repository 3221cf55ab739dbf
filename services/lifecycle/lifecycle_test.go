package lifecycle

import (
	"testing"
	"time"

	"concierge/models"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestGraphsAreTotal(t *testing.T) {
	for _, s := range []models.ConversationStatus{
		models.ConversationNew, models.ConversationInReview, models.ConversationAwaitingClient,
		models.ConversationConverted, models.ConversationClosed,
	} {
		if _, ok := ConversationGraph[s]; !ok {
			t.Errorf("conversation graph missing state %s", s)
		}
	}
	for _, s := range []models.BookingStatus{
		models.BookingDraft, models.BookingAwaitingPayment, models.BookingPaid, models.BookingScheduled,
		models.BookingInProgress, models.BookingCompleted, models.BookingCancelled,
	} {
		if _, ok := BookingGraph[s]; !ok {
			t.Errorf("booking graph missing state %s", s)
		}
	}
	if !ConversationGraph.IsTerminal(models.ConversationClosed) {
		t.Error("closed should be terminal")
	}
	if !BookingGraph.IsTerminal(models.BookingCompleted) || !BookingGraph.IsTerminal(models.BookingCancelled) {
		t.Error("completed and cancelled should be terminal")
	}
	if BookingGraph.CanTransition(models.BookingPaid, models.BookingScheduled) {
		t.Error("paid -> scheduled must only happen through AutoSchedule")
	}
}

func TestBookingTransitionClosure(t *testing.T) {
	all := []models.BookingStatus{
		models.BookingDraft, models.BookingAwaitingPayment, models.BookingPaid, models.BookingScheduled,
		models.BookingInProgress, models.BookingCompleted, models.BookingCancelled,
	}
	for _, from := range all {
		for _, to := range all {
			b := &models.Booking{ID: "bk", Status: from, UpdatedAt: now.Add(-time.Hour)}
			ok := ApplyBookingTransition(b, to, now)
			legal := BookingGraph.CanTransition(from, to)
			if ok != legal {
				t.Errorf("%s -> %s: applied=%v, legal=%v", from, to, ok, legal)
			}
			if !ok && (b.Status != from || !b.UpdatedAt.Equal(now.Add(-time.Hour))) {
				t.Errorf("%s -> %s: rejected transition mutated booking", from, to)
			}
			if ok && b.Status != to {
				t.Errorf("%s -> %s: ended in %s", from, to, b.Status)
			}
		}
	}
}

func TestConversationTransitionClosure(t *testing.T) {
	all := []models.ConversationStatus{
		models.ConversationNew, models.ConversationInReview, models.ConversationAwaitingClient,
		models.ConversationConverted, models.ConversationClosed,
	}
	for _, from := range all {
		for _, to := range all {
			c := &models.Conversation{ID: "conv", Status: from}
			ok := ApplyConversationTransition(c, to, now)
			if ok != ConversationGraph.CanTransition(from, to) {
				t.Errorf("%s -> %s: unexpected result %v", from, to, ok)
			}
			if ok && (c.Status != to || !c.UpdatedAt.Equal(now)) {
				t.Errorf("%s -> %s: status/updatedAt not applied", from, to)
			}
			if !ok && c.Status != from {
				t.Errorf("%s -> %s: rejected transition changed status", from, to)
			}
		}
	}
}

func TestDraftCannotJumpToPaid(t *testing.T) {
	b := &models.Booking{ID: "bk-1", Status: models.BookingDraft}
	if ApplyBookingTransition(b, models.BookingPaid, now) {
		t.Fatal("draft -> paid should be rejected")
	}
	if b.Status != models.BookingDraft {
		t.Errorf("status = %s, want draft", b.Status)
	}
}

func TestAutoSchedule(t *testing.T) {
	exec := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	b := &models.Booking{ID: "bk-1", Status: models.BookingPaid, AssigneeID: ptr("usr-1"), ExecutionAt: &exec}

	if !AutoSchedule(b, now) {
		t.Fatal("expected paid booking with assignee and date to be scheduled")
	}
	if b.Status != models.BookingScheduled {
		t.Fatalf("status = %s, want scheduled", b.Status)
	}
	if AutoSchedule(b, now.Add(time.Minute)) {
		t.Error("second AutoSchedule should be a no-op")
	}
	if !b.UpdatedAt.Equal(now) {
		t.Error("no-op AutoSchedule touched UpdatedAt")
	}

	tests := []struct {
		name string
		b    models.Booking
	}{
		{"no assignee", models.Booking{Status: models.BookingPaid, ExecutionAt: &exec}},
		{"no date", models.Booking{Status: models.BookingPaid, AssigneeID: ptr("usr-1")}},
		{"zero date", models.Booking{Status: models.BookingPaid, AssigneeID: ptr("usr-1"), ExecutionAt: &time.Time{}}},
		{"not paid", models.Booking{Status: models.BookingAwaitingPayment, AssigneeID: ptr("usr-1"), ExecutionAt: &exec}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.b
			before := b.Status
			if AutoSchedule(&b, now) || b.Status != before {
				t.Errorf("expected no change, got %s", b.Status)
			}
		})
	}
}

func TestTransitionToPaidRunsAutoSchedule(t *testing.T) {
	exec := now.Add(48 * time.Hour)
	b := &models.Booking{ID: "bk-1", Status: models.BookingAwaitingPayment, AssigneeID: ptr("usr-4"), ExecutionAt: &exec}
	if !ApplyBookingTransition(b, models.BookingPaid, now) {
		t.Fatal("awaiting_payment -> paid rejected")
	}
	if b.Status != models.BookingScheduled {
		t.Errorf("status = %s, want scheduled", b.Status)
	}
}

func TestBillingStatePriority(t *testing.T) {
	inv := func(s models.InvoiceStatus) models.Invoice { return models.Invoice{Status: s} }
	pending := []models.Payment{{Status: models.PaymentPending}}
	failed := []models.Payment{{Status: models.PaymentFailed}}

	tests := []struct {
		name     string
		invoices []models.Invoice
		payments []models.Payment
		want     models.BillingState
	}{
		{"empty", nil, nil, models.BillingNoInvoice},
		{"draft only", []models.Invoice{inv(models.InvoiceDraft)}, nil, models.BillingInvoiceDraft},
		{"cancelled only", []models.Invoice{inv(models.InvoiceCancelled)}, nil, models.BillingInvoiceDraft},
		{"sent", []models.Invoice{inv(models.InvoiceSent)}, failed, models.BillingAwaitingPayment},
		{"sent with pending", []models.Invoice{inv(models.InvoiceSent)}, pending, models.BillingPaymentProcessing},
		{"paid beats sent", []models.Invoice{inv(models.InvoiceSent), inv(models.InvoicePaid)}, pending, models.BillingPaid},
		{"overdue beats paid", []models.Invoice{inv(models.InvoicePaid), inv(models.InvoiceOverdue)}, nil, models.BillingOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BillingState(tt.invoices, tt.payments); got != tt.want {
				t.Errorf("BillingState = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInvoiceAndPaymentTransitions(t *testing.T) {
	inv := &models.Invoice{Status: models.InvoiceDraft}
	if ApplyInvoiceTransition(inv, models.InvoicePaid, now) {
		t.Error("draft invoice cannot be paid directly")
	}
	if !ApplyInvoiceTransition(inv, models.InvoiceSent, now) || !ApplyInvoiceTransition(inv, models.InvoicePaid, now) {
		t.Fatal("draft -> sent -> paid rejected")
	}
	if inv.PaidAt == nil || !inv.PaidAt.Equal(now) {
		t.Error("PaidAt not stamped")
	}

	p := &models.Payment{Status: models.PaymentPending}
	if ApplyPaymentTransition(p, models.PaymentRefunded, now) {
		t.Error("pending payment cannot be refunded")
	}
	if !ApplyPaymentTransition(p, models.PaymentSucceeded, now) || p.ProcessedAt == nil {
		t.Fatal("pending -> succeeded should stamp ProcessedAt")
	}
	if !ApplyPaymentTransition(p, models.PaymentRefunded, now) {
		t.Error("succeeded -> refunded rejected")
	}
}
