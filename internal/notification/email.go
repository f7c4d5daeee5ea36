package notification

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	q "github.com/iliyamo/hotel-room-booking/internal/queue"
)

// SMTPConfig carries the mail transport settings.  An empty Host
// disables sending; the dispatcher then logs the confirmation instead
// of mailing it, which keeps local development broker-only.
type SMTPConfig struct {
	Host string
	Port string
	From string
	Pass string
}

// Enabled reports whether a mail host is configured.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// SendConfirmation emails the booking confirmation with the invoice
// PDF attached.  The message is a simple multipart/mixed MIME document
// built by hand; nothing in the confirmation needs templating beyond
// Sprintf.
func SendConfirmation(cfg SMTPConfig, toEmail string, ev q.BookingConfirmedEvent, invoicePDF []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Booking confirmed - %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/mixed; boundary=%s\r\n\r\n",
		cfg.From, toEmail, ev.HotelName, w.Boundary())

	textPart, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return err
	}
	fmt.Fprintf(textPart, "Your booking at %s (%s) is confirmed.\r\n\r\n", ev.HotelName, ev.City)
	fmt.Fprintf(textPart, "Stay: %s to %s\r\nRooms: %d\r\nTotal charged: %s\r\nPayment reference: %s\r\n\r\n",
		ev.CheckIn, ev.CheckOut, len(ev.Rooms), formatCents(ev.TotalAmountCents), ev.PaymentRef)
	fmt.Fprintf(textPart, "The invoice is attached. We look forward to welcoming you.\r\n")

	if len(invoicePDF) > 0 {
		attachment, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"application/pdf"},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=invoice-%d.pdf", ev.BookingID)},
		})
		if err != nil {
			return err
		}
		enc := base64.NewEncoder(base64.StdEncoding, attachment)
		if _, err := enc.Write(invoicePDF); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	msg := append([]byte(headers), buf.Bytes()...)
	auth := smtp.PlainAuth("", cfg.From, cfg.Pass, cfg.Host)
	return smtp.SendMail(cfg.Host+":"+cfg.Port, auth, cfg.From, []string{toEmail}, msg)
}
