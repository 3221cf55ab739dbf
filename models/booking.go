package models

import "time"

// Booking is a confirmed piece of work created from a conversation.
type Booking struct {
	ID             string        `bson:"id" json:"id"`
	ConversationID string        `bson:"conversation_id" json:"conversationId"`
	ClientID       string        `bson:"client_id" json:"clientId"`
	AssigneeID     *string       `bson:"assignee_id,omitempty" json:"assigneeId"`
	Status         BookingStatus `bson:"status" json:"status"`
	Title          string        `bson:"title" json:"title"`
	Category       ServiceType   `bson:"category" json:"category"`
	ExecutionAt    *time.Time    `bson:"execution_at,omitempty" json:"executionAt"` // nil until a date is agreed
	Location       string        `bson:"location" json:"location"`
	Price          float64       `bson:"price" json:"price"`
	CreatedAt      time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updatedAt"`
}
