package models

// Role is a staff member's access level.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleVipManager Role = "vip_manager"
	RoleManager    Role = "manager"
)

// IsPrivileged reports whether the role sees every record regardless of VIP status or assignment.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleVipManager
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleVipManager, RoleManager:
		return true
	}
	return false
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank orders priorities from most (0) to least urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

type Channel string

const (
	ChannelPhone     Channel = "phone"
	ChannelEmail     Channel = "email"
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelWeb       Channel = "web"
	ChannelConcierge Channel = "concierge"
)

type ServiceType string

const (
	ServiceCar        ServiceType = "car"
	ServiceJet        ServiceType = "jet"
	ServiceHelicopter ServiceType = "helicopter"
	ServiceYacht      ServiceType = "yacht"
)

type ConversationStatus string

const (
	ConversationNew            ConversationStatus = "new"
	ConversationInReview       ConversationStatus = "in_review"
	ConversationAwaitingClient ConversationStatus = "awaiting_client"
	ConversationConverted      ConversationStatus = "converted"
	ConversationClosed         ConversationStatus = "closed"
)

// IsActive reports whether the conversation still needs work.
func (s ConversationStatus) IsActive() bool {
	return s == ConversationNew || s == ConversationInReview || s == ConversationAwaitingClient
}

type BookingStatus string

const (
	BookingDraft           BookingStatus = "draft"
	BookingAwaitingPayment BookingStatus = "awaiting_payment"
	BookingPaid            BookingStatus = "paid"
	BookingScheduled       BookingStatus = "scheduled"
	BookingInProgress      BookingStatus = "in_progress"
	BookingCompleted       BookingStatus = "completed"
	BookingCancelled       BookingStatus = "cancelled"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// IsReceivable reports whether the invoice counts towards accounts receivable.
func (s InvoiceStatus) IsReceivable() bool {
	return s == InvoiceSent || s == InvoiceOverdue
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodBankTransfer          PaymentMethod = "bank_transfer"
	MethodCard                  PaymentMethod = "card"
	MethodBalanceCreditExternal PaymentMethod = "balance_credit_external"
	MethodCash                  PaymentMethod = "cash"
	MethodOther                 PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodCard, MethodBalanceCreditExternal, MethodCash, MethodOther:
		return true
	}
	return false
}

type SlaState string

const (
	SlaOnTrack  SlaState = "on_track"
	SlaAtRisk   SlaState = "at_risk"
	SlaBreached SlaState = "breached"
)

// BillingState is the derived rollup of a booking's invoices and payments.
type BillingState string

const (
	BillingNoInvoice         BillingState = "no_invoice"
	BillingInvoiceDraft      BillingState = "invoice_draft"
	BillingAwaitingPayment   BillingState = "awaiting_payment"
	BillingPaymentProcessing BillingState = "payment_processing"
	BillingPaid              BillingState = "paid"
	BillingOverdue           BillingState = "overdue"
)

type Sender string

const (
	SenderClient Sender = "client"
	SenderAgent  Sender = "agent"
	SenderSystem Sender = "system"
)
