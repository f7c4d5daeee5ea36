package notification

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	q "github.com/iliyamo/hotel-room-booking/internal/queue"
)

// GenerateInvoice renders a one-page PDF invoice for a confirmed
// booking.  A QR code encoding the booking and payment references is
// embedded so front-desk staff can pull up the booking by scanning.
// The returned bytes are the complete PDF document.
func GenerateInvoice(ev q.BookingConfirmedEvent) ([]byte, error) {
	invoiceNo := uuid.NewString()

	qrPayload := fmt.Sprintf("booking:%d|ref:%s", ev.BookingID, ev.PaymentRef)
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice No: %s", invoiceNo))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Booking ID: %d", ev.BookingID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Hotel: %s, %s", ev.HotelName, ev.City))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Stay: %s to %s", ev.CheckIn, ev.CheckOut))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Guest: %s", ev.UserEmail))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Rooms")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, rm := range ev.Rooms {
		pdf.Cell(0, 7, fmt.Sprintf("Room %s (%s)  %s - %s", rm.RoomNumber, rm.Category, rm.CheckIn, rm.CheckOut))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s  (paid via %s, ref %s)",
		formatCents(ev.TotalAmountCents), ev.PaymentMethod, ev.PaymentRef))

	// Add QR image
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// formatCents renders an integer cent amount as a dollar string.
func formatCents(cents uint32) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
