package store

import (
	"fmt"
	"time"

	"concierge/models"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password every demo staff account is seeded with.
const DemoPassword = "concierge"

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// DemoData builds the demo dataset with timestamps relative to now, so SLA clocks,
// overdue invoices and the upcoming-week radar always have something to show.
func DemoData(now time.Time) (*Tables, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	now = now.UTC()
	h := func(n int) time.Time { return now.Add(time.Duration(n) * time.Hour) }
	d := func(n int) time.Time { return now.AddDate(0, 0, n) }

	users := []models.User{
		{ID: "usr-1", Name: "James Thornton", Email: "james.thornton@llccar.com", Role: models.RoleAdmin,
			AvatarURL: "https://api.dicebear.com/7.x/initials/svg?seed=JT", IsActive: true, PasswordHash: string(hash),
			CreatedAt: d(-240), UpdatedAt: d(-30)},
		{ID: "usr-3", Name: "Marcus Chen", Email: "marcus.chen@llccar.com", Role: models.RoleVipManager,
			AvatarURL: "https://api.dicebear.com/7.x/initials/svg?seed=MC", IsActive: true, PasswordHash: string(hash),
			CreatedAt: d(-180), UpdatedAt: d(-14)},
		{ID: "usr-4", Name: "Elena Vasquez", Email: "elena.vasquez@llccar.com", Role: models.RoleManager,
			AvatarURL: "https://api.dicebear.com/7.x/initials/svg?seed=EV", IsActive: true, PasswordHash: string(hash),
			CreatedAt: d(-150), UpdatedAt: d(-5)},
	}

	clients := []models.Client{
		{ID: "cl-1", Name: "Richard Ashworth", Email: "r.ashworth@ashworthholdings.co.uk", Phone: "+44 20 7946 0101",
			Company: "Ashworth Holdings", IsVip: true, TotalConversations: 2, TotalSpend: 42000, CreatedAt: d(-300), UpdatedAt: d(-10)},
		{ID: "cl-2", Name: "Lady Charlotte Beaumont", Email: "charlotte@beaumont-estate.co.uk", Phone: "+44 20 7946 0202",
			Company: "Beaumont Estate", IsVip: true, TotalConversations: 1, CreatedAt: d(-200), UpdatedAt: h(-36)},
		{ID: "cl-3", Name: "Daniel Okafor", Email: "daniel@okaforcapital.com", Phone: "+44 20 7946 0303",
			Company: "Okafor Capital", TotalConversations: 2, TotalSpend: 660, CreatedAt: d(-120), UpdatedAt: h(-30)},
		{ID: "cl-4", Name: "Sofia Lindqvist", Email: "sofia.lindqvist@nordmail.se", Phone: "+46 8 555 0404",
			TotalConversations: 1, CreatedAt: d(-60), UpdatedAt: d(-5)},
		{ID: "cl-5", Name: "Henry Whitmore", Email: "h.whitmore@whitmore-partners.com", Phone: "+44 20 7946 0505",
			Company: "Whitmore Partners", TotalConversations: 1, TotalSpend: 1800, CreatedAt: d(-90), UpdatedAt: d(-2)},
	}

	conversations := []models.Conversation{
		{ID: "conv-1", ClientID: "cl-1", AssigneeID: strPtr("usr-3"), Status: models.ConversationInReview,
			Priority: models.PriorityCritical, Channel: models.ChannelPhone, ServiceType: models.ServiceCar,
			Title: "Heathrow transfer to Grosvenor Square", Description: "Arrival from JFK, two vehicles, champagne on board.",
			PickupLocation: "Heathrow Terminal 5", DropoffLocation: "Grosvenor Square, Mayfair", PickupDate: timePtr(h(20)),
			SlaDueAt: h(1), CreatedAt: h(-5), UpdatedAt: h(-1)},
		{ID: "conv-2", ClientID: "cl-1", AssigneeID: strPtr("usr-3"), Status: models.ConversationConverted,
			Priority: models.PriorityHigh, Channel: models.ChannelEmail, ServiceType: models.ServiceJet,
			Title: "Private jet to Newcastle", Description: "Return charter, tail G-LUXE requested.",
			PickupLocation: "Farnborough Airport", DropoffLocation: "Newcastle International", PickupDate: timePtr(d(3)),
			SlaDueAt: d(-8), CreatedAt: d(-10), UpdatedAt: d(-7)},
		{ID: "conv-3", ClientID: "cl-3", AssigneeID: strPtr("usr-4"), Status: models.ConversationNew,
			Priority: models.PriorityHigh, Channel: models.ChannelWhatsApp, ServiceType: models.ServiceCar,
			Title: "City Airport pickup", Description: "Board meeting in Canary Wharf straight after landing.",
			PickupLocation: "London City Airport", DropoffLocation: "Canary Wharf", PickupDate: timePtr(h(30)),
			SlaDueAt: h(-3), CreatedAt: h(-30), UpdatedAt: h(-28)},
		{ID: "conv-4", ClientID: "cl-2", Status: models.ConversationNew,
			Priority: models.PriorityMedium, Channel: models.ChannelWeb, ServiceType: models.ServiceHelicopter,
			Title: "Wedding helicopter transfer", Description: "Bride and groom from the chapel to the estate.",
			PickupLocation: "St. Mary's Chapel, Cotswolds", DropoffLocation: "Beaumont Estate", PickupDate: timePtr(d(21)),
			SlaDueAt: h(20), CreatedAt: h(-36), UpdatedAt: h(-36)},
		{ID: "conv-5", ClientID: "cl-4", AssigneeID: strPtr("usr-4"), Status: models.ConversationAwaitingClient,
			Priority: models.PriorityMedium, Channel: models.ChannelEmail, ServiceType: models.ServiceYacht,
			Title: "Monaco yacht weekend", Description: "Waiting on guest list and dietary requirements.",
			PickupLocation: "Port Hercule, Monaco", DropoffLocation: "Port Hercule, Monaco", PickupDate: timePtr(d(14)),
			SlaDueAt: h(30), CreatedAt: d(-5), UpdatedAt: h(-60)},
		{ID: "conv-6", ClientID: "cl-5", AssigneeID: strPtr("usr-4"), Status: models.ConversationConverted,
			Priority: models.PriorityLow, Channel: models.ChannelConcierge, ServiceType: models.ServiceCar,
			Title: "Corporate roadshow cars", Description: "Three days of investor meetings across the City.",
			PickupLocation: "The Savoy", DropoffLocation: "Various, City of London", PickupDate: timePtr(d(2)),
			SlaDueAt: d(-6), CreatedAt: d(-8), UpdatedAt: d(-6)},
		{ID: "conv-7", ClientID: "cl-3", AssigneeID: strPtr("usr-4"), Status: models.ConversationClosed,
			Priority: models.PriorityLow, Channel: models.ChannelPhone, ServiceType: models.ServiceCar,
			Title: "Theatre evening chauffeur", Description: "Royal Opera House and dinner after.",
			PickupLocation: "Holland Park", DropoffLocation: "Covent Garden",
			SlaDueAt: d(-19), CreatedAt: d(-20), UpdatedAt: d(-17)},
	}

	bookings := []models.Booking{
		{ID: "bk-1", ConversationID: "conv-2", ClientID: "cl-1", AssigneeID: strPtr("usr-3"), Status: models.BookingScheduled,
			Title: "Farnborough to Newcastle return charter", Category: models.ServiceJet, ExecutionAt: timePtr(d(3)),
			Location: "Farnborough Airport", Price: 42000, CreatedAt: d(-7), UpdatedAt: d(-6)},
		{ID: "bk-2", ConversationID: "conv-6", ClientID: "cl-5", AssigneeID: strPtr("usr-4"), Status: models.BookingAwaitingPayment,
			Title: "Roadshow day one fleet", Category: models.ServiceCar, ExecutionAt: timePtr(d(2)),
			Location: "The Savoy", Price: 3600, CreatedAt: d(-6), UpdatedAt: d(-4)},
		{ID: "bk-3", ConversationID: "conv-6", ClientID: "cl-5", Status: models.BookingPaid,
			Title: "Roadshow day two chauffeur", Category: models.ServiceCar, ExecutionAt: timePtr(d(5)),
			Location: "The Savoy", Price: 1800, CreatedAt: d(-6), UpdatedAt: d(-2)},
		{ID: "bk-4", ConversationID: "conv-7", ClientID: "cl-3", AssigneeID: strPtr("usr-4"), Status: models.BookingCompleted,
			Title: "Opera evening chauffeur", Category: models.ServiceCar, ExecutionAt: timePtr(d(-18)),
			Location: "Holland Park", Price: 660, CreatedAt: d(-19), UpdatedAt: d(-18)},
	}

	communications := []models.Communication{
		{ID: "msg-1", ConversationID: "conv-1", Sender: models.SenderClient, SenderName: "Richard Ashworth",
			Channel: models.ChannelPhone, Message: "Landing at T5 tomorrow evening, two cars please.", CreatedAt: h(-5)},
		{ID: "msg-2", ConversationID: "conv-1", Sender: models.SenderAgent, SenderName: "Marcus Chen",
			Channel: models.ChannelPhone, Message: "Confirmed, Heinrich will drive. Krug on board as usual.", CreatedAt: h(-4)},
		{ID: "msg-3", ConversationID: "conv-1", Sender: models.SenderClient, SenderName: "Richard Ashworth",
			Channel: models.ChannelPhone, Message: "Flight now delayed by an hour.", CreatedAt: h(-1)},
		{ID: "msg-4", ConversationID: "conv-2", Sender: models.SenderClient, SenderName: "Richard Ashworth",
			Channel: models.ChannelEmail, Message: "Same aircraft as November if possible.", CreatedAt: d(-10)},
		{ID: "msg-5", ConversationID: "conv-2", Sender: models.SenderSystem, SenderName: "System",
			Channel: models.ChannelEmail, Message: "Booking bk-1 created.", Tags: []string{"booking"}, CreatedAt: d(-7)},
		{ID: "msg-6", ConversationID: "conv-3", Sender: models.SenderClient, SenderName: "Daniel Okafor",
			Channel: models.ChannelWhatsApp, Message: "Need a car from City Airport on Thursday morning.", CreatedAt: h(-30)},
		{ID: "msg-7", ConversationID: "conv-4", Sender: models.SenderClient, SenderName: "Lady Charlotte Beaumont",
			Channel: models.ChannelWeb, Message: "Could we have a helicopter for the wedding exit?", CreatedAt: h(-36)},
		{ID: "msg-8", ConversationID: "conv-5", Sender: models.SenderAgent, SenderName: "Elena Vasquez",
			Channel: models.ChannelEmail, Message: "Could you send the guest list and dietary needs?", CreatedAt: h(-60)},
		{ID: "msg-9", ConversationID: "conv-6", Sender: models.SenderClient, SenderName: "Henry Whitmore",
			Channel: models.ChannelConcierge, Message: "Three cars on day one, one on day two.", CreatedAt: d(-8)},
	}

	notes := []models.InternalNote{
		{ID: "note-1", ConversationID: "conv-1", AuthorID: "usr-3",
			Content: "Krug Grande Cuvee only, served at 8C. Heinrich briefed on all protocols.", CreatedAt: h(-4), UpdatedAt: h(-4)},
		{ID: "note-2", ConversationID: "conv-1", AuthorID: "usr-1",
			Content: "Grosvenor Square security needs 30 minutes notice of arrival. Verify gate code before dispatch.", CreatedAt: h(-3), UpdatedAt: h(-3)},
		{ID: "note-3", ConversationID: "conv-2", AuthorID: "usr-3",
			Content: "Operator confirmed tail G-LUXE. Catering through the Dorchester.", CreatedAt: d(-9), UpdatedAt: d(-9)},
		{ID: "note-4", ConversationID: "conv-3", AuthorID: "usr-4",
			Content: "Prefers an S-Class, no music in the car.", CreatedAt: h(-28), UpdatedAt: h(-28)},
	}

	invoices := []models.Invoice{
		{ID: "inv-1", BookingID: "bk-1", ClientID: "cl-1", Status: models.InvoicePaid,
			LineItems: []models.InvoiceLineItem{{Description: "Charter, Farnborough to Newcastle return", Quantity: 1, UnitPrice: 35000}},
			Subtotal:  35000, TaxRate: 20, TaxAmount: 7000, Total: 42000, DueDate: d(-1), PaidAt: timePtr(d(-6)),
			CreatedAt: d(-7), UpdatedAt: d(-6)},
		{ID: "inv-2", BookingID: "bk-2", ClientID: "cl-5", Status: models.InvoiceSent,
			LineItems: []models.InvoiceLineItem{{Description: "Executive saloon, full day", Quantity: 3, UnitPrice: 1000}},
			Subtotal:  3000, TaxRate: 20, TaxAmount: 600, Total: 3600, DueDate: d(5),
			CreatedAt: d(-5), UpdatedAt: d(-4)},
		{ID: "inv-3", BookingID: "bk-3", ClientID: "cl-5", Status: models.InvoicePaid,
			LineItems: []models.InvoiceLineItem{{Description: "Chauffeur, full day", Quantity: 1, UnitPrice: 1500}},
			Subtotal:  1500, TaxRate: 20, TaxAmount: 300, Total: 1800, DueDate: d(1), PaidAt: timePtr(d(-2)),
			CreatedAt: d(-5), UpdatedAt: d(-2)},
		{ID: "inv-4", BookingID: "bk-4", ClientID: "cl-3", Status: models.InvoiceOverdue,
			LineItems: []models.InvoiceLineItem{{Description: "Evening chauffeur", Quantity: 1, UnitPrice: 550}},
			Subtotal:  550, TaxRate: 20, TaxAmount: 110, Total: 660, DueDate: d(-5),
			CreatedAt: d(-18), UpdatedAt: d(-4)},
	}

	payments := []models.Payment{
		{ID: "pay-1", InvoiceID: "inv-1", ClientID: "cl-1", Status: models.PaymentSucceeded, Method: models.MethodBankTransfer,
			Amount: 42000, ProcessedAt: timePtr(d(-6)), CreatedAt: d(-6), UpdatedAt: d(-6)},
		{ID: "pay-2", InvoiceID: "inv-2", ClientID: "cl-5", Status: models.PaymentFailed, Method: models.MethodCard,
			Amount: 3600, ProcessedAt: timePtr(d(-4)), CreatedAt: d(-4), UpdatedAt: d(-4)},
		{ID: "pay-3", InvoiceID: "inv-3", ClientID: "cl-5", Status: models.PaymentSucceeded, Method: models.MethodCard,
			Amount: 1800, ProcessedAt: timePtr(d(-2)), CreatedAt: d(-2), UpdatedAt: d(-2)},
		{ID: "pay-4", InvoiceID: "inv-2", ClientID: "cl-5", Status: models.PaymentPending, Method: models.MethodBankTransfer,
			Amount: 3600, CreatedAt: d(-1), UpdatedAt: d(-1)},
	}

	return &Tables{
		Users:          users,
		Clients:        clients,
		Conversations:  conversations,
		Bookings:       bookings,
		Communications: communications,
		InternalNotes:  notes,
		Invoices:       invoices,
		Payments:       payments,
	}, nil
}
