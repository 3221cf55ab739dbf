package invoicepdf

import (
	"bytes"
	"testing"
	"time"

	"concierge/models"
)

func TestRender(t *testing.T) {
	inv := &models.InvoiceWithRelations{
		Invoice: models.Invoice{
			ID:        "inv-2",
			Status:    models.InvoiceSent,
			LineItems: []models.InvoiceLineItem{{Description: "Executive saloon, full day", Quantity: 3, UnitPrice: 1000}},
			Subtotal:  3000,
			TaxRate:   20,
			TaxAmount: 600,
			Total:     3600,
			DueDate:   time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			CreatedAt: time.Date(2026, 2, 24, 0, 0, 0, 0, time.UTC),
		},
		Client:  &models.Client{ID: "cl-5", Name: "Henry Whitmore", Company: "Whitmore Partners"},
		Booking: &models.Booking{ID: "bk-2", Title: "Roadshow day one fleet"},
	}

	out, err := Render(inv, "gbp")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", out[:8])
	}
}

func TestQRPayload(t *testing.T) {
	got := QRPayload(&models.Invoice{ID: "inv-9", Total: 660}, "gbp")
	if got != "invoice|inv-9|660.00|GBP" {
		t.Errorf("QRPayload = %s", got)
	}
}
