package concierge

import (
	"context"
	"errors"
	"testing"
	"time"

	"concierge/database/repository/readstate"
	"concierge/database/repository/store"
	"concierge/models"
	"concierge/services/events"
	"concierge/services/listing"
	"concierge/services/payment"

	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	store  *store.MemoryStore
	events *events.Recorder
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemoryStore()
	data, err := store.DemoData(testNow)
	if err != nil {
		t.Fatalf("DemoData: %v", err)
	}
	if err := st.Seed(context.Background(), data); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	f := &fixture{store: st, events: &events.Recorder{}, now: testNow}
	logger := zap.NewNop()
	f.svc = New(st, f.events, payment.NewManualProcessor(logger), readstate.NewMemoryReadState(), logger,
		WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) user(t *testing.T, id string) models.User {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUser(%s): %v", id, err)
	}
	return *u
}

func (f *fixture) admin(t *testing.T) models.User      { return f.user(t, "usr-1") }
func (f *fixture) vipManager(t *testing.T) models.User { return f.user(t, "usr-3") }
func (f *fixture) manager(t *testing.T) models.User    { return f.user(t, "usr-4") }

func hasEvent(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func TestCreateBookingFromConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBookingFromConversation(ctx, f.vipManager(t), "conv-1", BookingInput{Price: 950})
	if err != nil {
		t.Fatalf("CreateBookingFromConversation: %v", err)
	}
	if b.Status != models.BookingDraft {
		t.Errorf("status = %s, want draft", b.Status)
	}
	if b.ClientID != "cl-1" || b.AssigneeID == nil || *b.AssigneeID != "usr-3" {
		t.Errorf("booking did not inherit client and assignee: %+v", b)
	}
	if b.Location != "Heathrow Terminal 5" {
		t.Errorf("location = %q, want pickup location", b.Location)
	}
	if b.ExecutionAt == nil || !b.ExecutionAt.Equal(testNow.Add(20*time.Hour)) {
		t.Errorf("execution date not taken from pickup date: %v", b.ExecutionAt)
	}

	conv, _ := f.store.GetConversation(ctx, "conv-1")
	if conv.Status != models.ConversationConverted {
		t.Errorf("conversation status = %s, want converted", conv.Status)
	}
	if !hasEvent(f.events.Types(), models.EventBookingCreated) {
		t.Errorf("booking.created not published: %v", f.events.Types())
	}

	if _, err := f.svc.CreateBookingFromConversation(ctx, f.vipManager(t), "conv-1", BookingInput{}); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("second conversion: want ErrIllegalTransition, got %v", err)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		user models.User
		id   string
		want error
	}{
		{"manager cannot touch VIP conversation", f.manager(t), "conv-1", ErrForbidden},
		{"new conversation cannot convert", f.manager(t), "conv-3", ErrIllegalTransition},
		{"missing conversation", f.admin(t), "conv-404", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBookingFromConversation(ctx, tt.user, tt.id, BookingInput{})
			if !errors.Is(err, tt.want) {
				t.Errorf("want %v, got %v", tt.want, err)
			}
		})
	}

	conv, _ := f.store.GetConversation(ctx, "conv-3")
	if conv.Status != models.ConversationNew {
		t.Errorf("rejected conversion mutated conversation: %s", conv.Status)
	}
}

func TestTransitionConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.svc.TransitionConversation(ctx, f.manager(t), "conv-3", models.ConversationInReview)
	if err != nil {
		t.Fatalf("TransitionConversation: %v", err)
	}
	if conv.Status != models.ConversationInReview || !conv.UpdatedAt.Equal(testNow) {
		t.Errorf("unexpected conversation after transition: %s at %v", conv.Status, conv.UpdatedAt)
	}

	if _, err := f.svc.TransitionConversation(ctx, f.manager(t), "conv-7", models.ConversationNew); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("closed conversation reopened: %v", err)
	}
}

func TestConfirmPaymentCascadesToScheduled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SettlePayment(ctx, f.admin(t), "pay-4", false); err != nil {
		t.Fatalf("SettlePayment(pay-4, failed): %v", err)
	}
	p, err := f.svc.ConfirmPayment(ctx, f.admin(t), "inv-2", PaymentInput{Method: models.MethodCard})
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if p.Status != models.PaymentSucceeded || p.Amount != 3600 || p.ProcessedAt == nil {
		t.Errorf("unexpected payment: %+v", p)
	}

	inv, _ := f.store.GetInvoice(ctx, "inv-2")
	if inv.Status != models.InvoicePaid || inv.PaidAt == nil {
		t.Errorf("invoice not paid: %s", inv.Status)
	}
	b, _ := f.store.GetBooking(ctx, "bk-2")
	if b.Status != models.BookingScheduled {
		t.Errorf("booking status = %s, want scheduled", b.Status)
	}
	c, _ := f.store.GetClient(ctx, "cl-5")
	if c.TotalSpend != 5400 {
		t.Errorf("client spend = %v, want 5400", c.TotalSpend)
	}

	types := f.events.Types()
	for _, want := range []string{models.EventPaymentRecorded, models.EventInvoiceStatusChanged, models.EventBookingStatusChanged} {
		if !hasEvent(types, want) {
			t.Errorf("missing event %s in %v", want, types)
		}
	}

	if _, err := f.svc.ConfirmPayment(ctx, f.admin(t), "inv-2", PaymentInput{Method: models.MethodCard}); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("paying a paid invoice: want ErrIllegalTransition, got %v", err)
	}
}

func TestConfirmPaymentAmountMustMatchTotal(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		wantErr error
	}{
		{"zero pays the total", 0, nil},
		{"exact total", 3600, nil},
		{"total with sub-cent noise", 3600.001, nil},
		{"partial amount", 1, ErrInvalidInput},
		{"overpayment", 3600.01, ErrInvalidInput},
		{"negative", -5, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			if _, err := f.svc.SettlePayment(ctx, f.admin(t), "pay-4", false); err != nil {
				t.Fatalf("SettlePayment(pay-4, failed): %v", err)
			}

			p, err := f.svc.ConfirmPayment(ctx, f.admin(t), "inv-2", PaymentInput{Method: models.MethodCash, Amount: tt.amount})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ConfirmPayment(%v) error = %v, want %v", tt.amount, err, tt.wantErr)
			}

			inv, _ := f.store.GetInvoice(ctx, "inv-2")
			b, _ := f.store.GetBooking(ctx, "bk-2")
			c, _ := f.store.GetClient(ctx, "cl-5")
			if tt.wantErr != nil {
				if inv.Status != models.InvoiceSent || b.Status != models.BookingAwaitingPayment || c.TotalSpend != 1800 {
					t.Errorf("rejected payment mutated state: invoice=%s booking=%s spend=%v", inv.Status, b.Status, c.TotalSpend)
				}
				return
			}
			if p.Amount != 3600 || inv.Status != models.InvoicePaid || c.TotalSpend != 5400 {
				t.Errorf("payment=%v invoice=%s spend=%v", p.Amount, inv.Status, c.TotalSpend)
			}
		})
	}
}

func TestConfirmPaymentRejectsSecondPendingPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)

	if _, err := f.svc.ConfirmPayment(ctx, admin, "inv-2", PaymentInput{Method: models.MethodBankTransfer}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("confirm while pay-4 is pending: want ErrIllegalTransition, got %v", err)
	}

	if _, err := f.svc.SettlePayment(ctx, admin, "pay-4", false); err != nil {
		t.Fatalf("SettlePayment(pay-4, failed): %v", err)
	}
	first, err := f.svc.ConfirmPayment(ctx, admin, "inv-2", PaymentInput{Method: models.MethodBankTransfer})
	if err != nil {
		t.Fatalf("first ConfirmPayment: %v", err)
	}
	if _, err := f.svc.ConfirmPayment(ctx, admin, "inv-2", PaymentInput{Method: models.MethodBankTransfer}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("second ConfirmPayment: want ErrIllegalTransition, got %v", err)
	}

	if _, err := f.svc.SettlePayment(ctx, admin, first.ID, true); err != nil {
		t.Fatalf("SettlePayment: %v", err)
	}
	c, _ := f.store.GetClient(ctx, "cl-5")
	if c.TotalSpend != 5400 {
		t.Errorf("client spend = %v, want 5400", c.TotalSpend)
	}
	snap, _ := f.store.Snapshot(ctx)
	succeeded := 0
	for _, p := range snap.Payments {
		if p.InvoiceID == "inv-2" && p.Status == models.PaymentSucceeded {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("succeeded payments on inv-2 = %d, want 1", succeeded)
	}
}

func TestSettlePaymentRefusesInvoiceAlreadyPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)

	stray := &models.Payment{ID: "pay-stray", InvoiceID: "inv-3", ClientID: "cl-5", Status: models.PaymentPending,
		Method: models.MethodBankTransfer, Amount: 1800, CreatedAt: testNow, UpdatedAt: testNow}
	if err := f.store.SavePayment(ctx, stray); err != nil {
		t.Fatalf("SavePayment: %v", err)
	}

	if _, err := f.svc.SettlePayment(ctx, admin, "pay-stray", true); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("settling against a paid invoice: want ErrIllegalTransition, got %v", err)
	}
	p, _ := f.store.GetPayment(ctx, "pay-stray")
	if p.Status != models.PaymentPending {
		t.Errorf("payment status = %s, want pending", p.Status)
	}
	c, _ := f.store.GetClient(ctx, "cl-5")
	if c.TotalSpend != 1800 {
		t.Errorf("client spend = %v, want 1800", c.TotalSpend)
	}

	if _, err := f.svc.SettlePayment(ctx, admin, "pay-stray", false); err != nil {
		t.Errorf("failing the stray payment: %v", err)
	}
}

func TestEndToEndConversationToScheduledBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.vipManager(t)

	b, err := f.svc.CreateBookingFromConversation(ctx, user, "conv-1", BookingInput{})
	if err != nil {
		t.Fatalf("CreateBookingFromConversation: %v", err)
	}

	inv, err := f.svc.CreateInvoice(ctx, user, b.ID, InvoiceInput{
		LineItems: []models.InvoiceLineItem{{Description: "Chauffeur", Quantity: 3, UnitPrice: 333.33}},
		TaxRate:   20,
		DueDate:   testNow.Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.Subtotal != 999.99 || inv.TaxAmount != 200 || inv.Total != 1199.99 {
		t.Errorf("totals = %v + %v = %v", inv.Subtotal, inv.TaxAmount, inv.Total)
	}
	if inv.Status != models.InvoiceDraft {
		t.Errorf("new invoice status = %s", inv.Status)
	}

	if _, err := f.svc.SendInvoice(ctx, user, inv.ID); err != nil {
		t.Fatalf("SendInvoice: %v", err)
	}
	got, _ := f.store.GetBooking(ctx, b.ID)
	if got.Status != models.BookingAwaitingPayment {
		t.Fatalf("booking after send = %s, want awaiting_payment", got.Status)
	}

	p, err := f.svc.ConfirmPayment(ctx, user, inv.ID, PaymentInput{Method: models.MethodBankTransfer})
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if p.Status != models.PaymentPending {
		t.Fatalf("bank transfer status = %s, want pending", p.Status)
	}
	sent, _ := f.store.GetInvoice(ctx, inv.ID)
	if sent.Status != models.InvoiceSent {
		t.Errorf("pending payment changed invoice to %s", sent.Status)
	}

	if _, err := f.svc.SettlePayment(ctx, user, p.ID, true); err != nil {
		t.Fatalf("SettlePayment: %v", err)
	}
	got, _ = f.store.GetBooking(ctx, b.ID)
	if got.Status != models.BookingScheduled {
		t.Errorf("booking after settlement = %s, want scheduled", got.Status)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := testNow.Add(24 * time.Hour)
	item := []models.InvoiceLineItem{{Description: "Fleet", Quantity: 1, UnitPrice: 100}}

	tests := []struct {
		name    string
		booking string
		in      InvoiceInput
		want    error
	}{
		{"no line items", "bk-2", InvoiceInput{DueDate: due}, ErrInvalidInput},
		{"negative tax", "bk-2", InvoiceInput{LineItems: item, TaxRate: -1, DueDate: due}, ErrInvalidInput},
		{"missing due date", "bk-2", InvoiceInput{LineItems: item}, ErrInvalidInput},
		{"zero quantity", "bk-2", InvoiceInput{LineItems: []models.InvoiceLineItem{{Description: "x", UnitPrice: 1}}, DueDate: due}, ErrInvalidInput},
		{"completed booking", "bk-4", InvoiceInput{LineItems: item, DueDate: due}, ErrIllegalTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.CreateInvoice(ctx, f.admin(t), tt.booking, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestInvoiceTotals(t *testing.T) {
	tests := []struct {
		items               []models.InvoiceLineItem
		rate                float64
		subtotal, tax, total float64
	}{
		{[]models.InvoiceLineItem{{Quantity: 1, UnitPrice: 100}}, 20, 100, 20, 120},
		{[]models.InvoiceLineItem{{Quantity: 2, UnitPrice: 10.005}}, 0, 20.01, 0, 20.01},
		{[]models.InvoiceLineItem{{Quantity: 1, UnitPrice: 1500}, {Quantity: 2, UnitPrice: 750}}, 20, 3000, 600, 3600},
	}
	for _, tt := range tests {
		sub, tax, total := InvoiceTotals(tt.items, tt.rate)
		if sub != tt.subtotal || tax != tt.tax || total != tt.total {
			t.Errorf("InvoiceTotals(%v, %v) = %v, %v, %v", tt.items, tt.rate, sub, tax, total)
		}
	}
}

func TestRefundPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.RefundPayment(ctx, f.admin(t), "pay-1", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank reason: want ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.RefundPayment(ctx, f.admin(t), "pay-2", "duplicate"); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("refunding a failed payment: want ErrIllegalTransition, got %v", err)
	}

	p, err := f.svc.RefundPayment(ctx, f.admin(t), "pay-1", "service cancelled by operator")
	if err != nil {
		t.Fatalf("RefundPayment: %v", err)
	}
	if p.Status != models.PaymentRefunded || p.RefundReason == "" {
		t.Errorf("unexpected refunded payment: %+v", p)
	}
	c, _ := f.store.GetClient(ctx, "cl-1")
	if c.TotalSpend != 0 {
		t.Errorf("client spend after refund = %v, want 0", c.TotalSpend)
	}
}

func TestMarkOverdueInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.MarkOverdueInvoices(ctx, testNow)
	if err != nil || n != 0 {
		t.Fatalf("sweep at now = %d, %v; want 0", n, err)
	}
	n, err = f.svc.MarkOverdueInvoices(ctx, testNow.Add(6*24*time.Hour))
	if err != nil {
		t.Fatalf("MarkOverdueInvoices: %v", err)
	}
	if n != 1 {
		t.Errorf("marked %d invoices, want 1", n)
	}
	inv, _ := f.store.GetInvoice(ctx, "inv-2")
	if inv.Status != models.InvoiceOverdue {
		t.Errorf("inv-2 status = %s, want overdue", inv.Status)
	}
}

func TestAssignBookingAutoSchedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nobody := "usr-404"
	if _, err := f.svc.AssignBooking(ctx, f.admin(t), "bk-3", &nobody); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown assignee: want ErrInvalidInput, got %v", err)
	}

	elena := "usr-4"
	b, err := f.svc.AssignBooking(ctx, f.admin(t), "bk-3", &elena)
	if err != nil {
		t.Fatalf("AssignBooking: %v", err)
	}
	if b.Status != models.BookingScheduled {
		t.Errorf("status = %s, want scheduled", b.Status)
	}

	if _, err := f.svc.RescheduleBooking(ctx, f.admin(t), "bk-4", nil); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("rescheduling a completed booking: want ErrIllegalTransition, got %v", err)
	}
}

func TestVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	elena := f.manager(t)

	rows, err := f.svc.ListConversations(ctx, elena, listing.ConversationFilter{}, listing.SortDateStarted, listing.Asc)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	seen := map[string]bool{}
	for _, r := range rows {
		seen[r.ID] = true
	}
	for _, id := range []string{"conv-3", "conv-5", "conv-6", "conv-7"} {
		if !seen[id] {
			t.Errorf("manager should see %s", id)
		}
	}
	if len(rows) != 4 {
		t.Errorf("manager sees %d conversations, want 4", len(rows))
	}

	for _, id := range []string{"bk-1", "bk-3"} {
		if _, err := f.svc.GetBooking(ctx, elena, id); !errors.Is(err, ErrForbidden) {
			t.Errorf("GetBooking(%s): want ErrForbidden, got %v", id, err)
		}
	}
	if _, err := f.svc.GetConversation(ctx, elena, "conv-404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing conversation: want ErrNotFound, got %v", err)
	}
	if _, err := f.svc.ListUsers(ctx, elena); !errors.Is(err, ErrForbidden) {
		t.Errorf("ListUsers as manager: want ErrForbidden, got %v", err)
	}

	conv, err := f.svc.GetConversation(ctx, elena, "conv-6")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	for _, b := range conv.Bookings {
		if b.ID == "bk-3" {
			t.Error("unassigned booking leaked into manager's conversation view")
		}
	}
}

func TestListClientsForManager(t *testing.T) {
	f := newFixture(t)
	rows, err := f.svc.ListClients(context.Background(), f.manager(t), listing.ClientFilter{})
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if len(ids) != 3 || ids[0] != "cl-3" || ids[1] != "cl-4" || ids[2] != "cl-5" {
		t.Fatalf("client rows = %v", ids)
	}
	if rows[0].VisibleConversationCount != 2 || !rows[0].IsActive {
		t.Errorf("cl-3 row = %+v", rows[0])
	}

	if _, err := f.svc.GetClient(context.Background(), f.manager(t), "cl-1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("VIP client detail: want ErrForbidden, got %v", err)
	}
}

func TestReadStateDrivesUnread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	marcus := f.vipManager(t)

	unread := func() bool {
		item, err := f.svc.GetConversation(ctx, marcus, "conv-1")
		if err != nil {
			t.Fatalf("GetConversation: %v", err)
		}
		return item.Unread
	}

	if !unread() {
		t.Fatal("conv-1 should start unread")
	}
	if err := f.svc.MarkConversationRead(ctx, marcus, "conv-1"); err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	if unread() {
		t.Fatal("conv-1 should be read after marking")
	}

	f.now = f.now.Add(time.Minute)
	if _, err := f.svc.AddCommunication(ctx, marcus, "conv-1", CommunicationInput{
		Sender: models.SenderClient, SenderName: "Richard Ashworth", Message: "Any update?",
	}); err != nil {
		t.Fatalf("AddCommunication: %v", err)
	}
	if !unread() {
		t.Error("new client message should make conv-1 unread again")
	}

	if _, err := f.svc.AddCommunication(ctx, marcus, "conv-1", CommunicationInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty message: want ErrInvalidInput, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, user, err := f.svc.Login(ctx, "Marcus.Chen@llccar.com", store.DemoPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || user.ID != "usr-3" {
		t.Errorf("unexpected login result: %q %+v", token, user)
	}

	for _, tc := range []struct{ email, password string }{
		{"marcus.chen@llccar.com", "wrong"},
		{"nobody@llccar.com", store.DemoPassword},
	} {
		if _, _, err := f.svc.Login(ctx, tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%s): want ErrInvalidCredentials, got %v", tc.email, err)
		}
	}
}

func TestBookingHidesConversationAssignedElsewhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv, _ := f.store.GetConversation(ctx, "conv-6")
	other := "usr-3"
	conv.AssigneeID = &other
	if err := f.store.SaveConversation(ctx, conv); err != nil {
		t.Fatalf("SaveConversation: %v", err)
	}

	b, err := f.svc.GetBooking(ctx, f.manager(t), "bk-2")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if b.Conversation != nil {
		t.Errorf("manager sees conversation %s assigned to someone else", b.Conversation.ID)
	}

	rows, err := f.svc.ListBookings(ctx, f.manager(t), listing.RecordFilter[models.BookingStatus]{})
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	for _, r := range rows {
		if r.ID == "bk-2" && r.Conversation != nil {
			t.Error("ListBookings leaks conv-6 to the manager")
		}
	}

	full, err := f.svc.GetBooking(ctx, f.admin(t), "bk-2")
	if err != nil {
		t.Fatalf("GetBooking as admin: %v", err)
	}
	if full.Conversation == nil || full.Conversation.ID != "conv-6" {
		t.Errorf("admin lost the linked conversation: %+v", full.Conversation)
	}
}
