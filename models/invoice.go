package models

import "time"

type InvoiceLineItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unitPrice"`
}

// Invoice bills a booking. A booking may carry several invoices.
type Invoice struct {
	ID        string            `bson:"id" json:"id"`
	BookingID string            `bson:"booking_id" json:"bookingId"`
	ClientID  string            `bson:"client_id" json:"clientId"`
	Status    InvoiceStatus     `bson:"status" json:"status"`
	LineItems []InvoiceLineItem `bson:"line_items" json:"lineItems"`
	Subtotal  float64           `bson:"subtotal" json:"subtotal"`
	TaxRate   float64           `bson:"tax_rate" json:"taxRate"` // percent, e.g. 20 for 20%
	TaxAmount float64           `bson:"tax_amount" json:"taxAmount"`
	Total     float64           `bson:"total" json:"total"`
	DueDate   time.Time         `bson:"due_date" json:"dueDate"`
	PaidAt    *time.Time        `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updated_at" json:"updatedAt"`
}
