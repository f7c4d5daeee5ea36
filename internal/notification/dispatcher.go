package notification

import (
	"log"

	q "github.com/iliyamo/hotel-room-booking/internal/queue"
)

// Dispatcher turns a confirmation event into user-visible artifacts:
// it renders the invoice and emails it to the guest.  It runs on the
// consumer side of the booking.confirmed queue, strictly after the
// checkout committed, so every failure here is logged and swallowed:
// a lost email must never look like a failed booking.
type Dispatcher struct {
	SMTP SMTPConfig
}

// NewDispatcher constructs a Dispatcher with the given mail settings.
func NewDispatcher(smtp SMTPConfig) *Dispatcher {
	return &Dispatcher{SMTP: smtp}
}

// Deliver generates the invoice and sends the confirmation email for
// one event.  A failed invoice render still sends the plain email; a
// failed email send is logged with enough context to re-send by hand.
// The returned error reports whether anything went wrong so the
// consumer can count failures, but callers must not treat it as fatal.
func (d *Dispatcher) Deliver(ev q.BookingConfirmedEvent) error {
	invoice, err := GenerateInvoice(ev)
	if err != nil {
		log.Printf("notification: invoice for booking %d failed: %v", ev.BookingID, err)
		invoice = nil
	}

	if !d.SMTP.Enabled() {
		log.Printf("notification: smtp disabled; booking %d confirmation for %s not mailed", ev.BookingID, ev.UserEmail)
		return err
	}
	if mailErr := SendConfirmation(d.SMTP, ev.UserEmail, ev, invoice); mailErr != nil {
		log.Printf("notification: email for booking %d to %s failed: %v", ev.BookingID, ev.UserEmail, mailErr)
		return mailErr
	}
	return err
}
