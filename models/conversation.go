package models

import "time"

// Conversation is the root of a client engagement. It converts into a Booking.
type Conversation struct {
	ID              string             `bson:"id" json:"id"`
	ClientID        string             `bson:"client_id" json:"clientId"`
	AssigneeID      *string            `bson:"assignee_id,omitempty" json:"assigneeId"`
	Status          ConversationStatus `bson:"status" json:"status"`
	Priority        Priority           `bson:"priority" json:"priority"`
	Channel         Channel            `bson:"channel" json:"channel"`
	ServiceType     ServiceType        `bson:"service_type" json:"serviceType"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	PickupLocation  string             `bson:"pickup_location" json:"pickupLocation"`
	DropoffLocation string             `bson:"dropoff_location" json:"dropoffLocation"`
	PickupDate      *time.Time         `bson:"pickup_date,omitempty" json:"pickupDate,omitempty"`
	SlaDueAt        time.Time          `bson:"sla_due_at" json:"slaDueAt"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Attachment is a file shared inside a communication.
type Attachment struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Type string `bson:"type" json:"type"`
	Size int64  `bson:"size" json:"size"`
	URL  string `bson:"url" json:"url"`
}

// Communication is one message in a conversation thread. Append-only.
type Communication struct {
	ID             string       `bson:"id" json:"id"`
	ConversationID string       `bson:"conversation_id" json:"conversationId"`
	Sender         Sender       `bson:"sender" json:"sender"`
	SenderName     string       `bson:"sender_name" json:"senderName"`
	Channel        Channel      `bson:"channel" json:"channel"`
	Message        string       `bson:"message" json:"message"`
	Attachments    []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Tags           []string     `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
}

// InternalNote is a staff-only note on a conversation. Append-only.
type InternalNote struct {
	ID             string    `bson:"id" json:"id"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	AuthorID       string    `bson:"author_id" json:"authorId"`
	Content        string    `bson:"content" json:"content"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}
