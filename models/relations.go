package models

// ConversationWithRelations is a conversation joined with everything hanging off it.
type ConversationWithRelations struct {
	Conversation
	Client         *Client         `json:"client"`
	Assignee       *User           `json:"assignee"`
	Communications []Communication `json:"communications"`
	InternalNotes  []InternalNote  `json:"internalNotes"`
	Bookings       []Booking       `json:"bookings"`
	Invoices       []Invoice       `json:"invoices"`
	Payments       []Payment       `json:"payments"`
	SlaState       SlaState        `json:"slaState"`
}

type BookingWithRelations struct {
	Booking
	Client       *Client       `json:"client"`
	Assignee     *User         `json:"assignee"`
	Conversation *Conversation `json:"conversation"`
	Invoices     []Invoice     `json:"invoices"`
	Payments     []Payment     `json:"payments"`
	BillingState BillingState  `json:"billingState"`
}

type InvoiceWithRelations struct {
	Invoice
	Client   *Client   `json:"client"`
	Booking  *Booking  `json:"booking"`
	Payments []Payment `json:"payments"`
}

type PaymentWithRelations struct {
	Payment
	Invoice *Invoice `json:"invoice"`
	Client  *Client  `json:"client"`
	Booking *Booking `json:"booking"`
}

// InboxItem is a conversation row in a viewer's inbox.
type InboxItem struct {
	ConversationWithRelations
	Unread bool `json:"unread"`
}
