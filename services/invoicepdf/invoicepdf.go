// Package invoicepdf renders an invoice as a printable PDF with a QR reference.
package invoicepdf

import (
	"bytes"
	"fmt"
	"strings"

	"concierge/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// QRPayload is the string encoded in the invoice's QR code: invoice id, total and currency.
func QRPayload(inv *models.Invoice, currency string) string {
	return fmt.Sprintf("invoice|%s|%.2f|%s", inv.ID, inv.Total, strings.ToUpper(currency))
}

func money(currency string, amount float64) string {
	return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
}

// Render lays out one invoice on an A4 page.
func Render(inv *models.InvoiceWithRelations, currency string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(QRPayload(&inv.Invoice, currency), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Invoice "+inv.ID)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	if inv.Client != nil {
		pdf.Cell(0, 7, tr("Billed to: "+inv.Client.Name))
		pdf.Ln(6)
		if inv.Client.Company != "" {
			pdf.Cell(0, 7, tr(inv.Client.Company))
			pdf.Ln(6)
		}
	}
	if inv.Booking != nil {
		pdf.Cell(0, 7, tr("Booking: "+inv.Booking.Title))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, "Status: "+string(inv.Status))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Issued: "+inv.CreatedAt.Format("02 Jan 2006"))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Due: "+inv.DueDate.Format("02 Jan 2006"))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 15, 35, 35, false, imageOpts, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(100, 8, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range inv.LineItems {
		pdf.CellFormat(100, 8, tr(item.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%g", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Quantity*item.UnitPrice), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totals := [][2]string{
		{"Subtotal", money(currency, inv.Subtotal)},
		{fmt.Sprintf("Tax (%g%%)", inv.TaxRate), money(currency, inv.TaxAmount)},
		{"Total", money(currency, inv.Total)},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 12)
		}
		pdf.CellFormat(155, 8, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, row[1], "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
