package models

import "time"

// DomainEvent records a state change for downstream consumers.
type DomainEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	EntityID   string         `json:"entityId"`
	ActorID    string         `json:"actorId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

const (
	EventConversationStatusChanged = "conversation.status_changed"
	EventConversationAssigned      = "conversation.assigned"
	EventCommunicationAdded        = "conversation.communication_added"
	EventNoteAdded                 = "conversation.note_added"
	EventBookingCreated            = "booking.created"
	EventBookingStatusChanged      = "booking.status_changed"
	EventBookingUpdated            = "booking.updated"
	EventInvoiceCreated            = "invoice.created"
	EventInvoiceStatusChanged      = "invoice.status_changed"
	EventPaymentRecorded           = "payment.recorded"
	EventPaymentStatusChanged      = "payment.status_changed"
)
