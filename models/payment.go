package models

import "time"

// Payment is one attempt to settle an invoice.
type Payment struct {
	ID           string        `bson:"id" json:"id"`
	InvoiceID    string        `bson:"invoice_id" json:"invoiceId"`
	ClientID     string        `bson:"client_id" json:"clientId"`
	Status       PaymentStatus `bson:"status" json:"status"`
	Method       PaymentMethod `bson:"method" json:"method"`
	Amount       float64       `bson:"amount" json:"amount"`
	ProcessedAt  *time.Time    `bson:"processed_at,omitempty" json:"processedAt,omitempty"`
	RefundReason string        `bson:"refund_reason,omitempty" json:"refundReason,omitempty"`
	ExternalRef  string        `bson:"external_ref,omitempty" json:"externalRef,omitempty"` // processor reference, e.g. a Stripe PaymentIntent id
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}
