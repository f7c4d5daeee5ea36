// Package queue defines message payloads exchanged over the message broker.
package queue

// BookedRoom is the per-room slice of a confirmation event.
type BookedRoom struct {
	RoomNumber string `json:"room_number"`
	Category   string `json:"category"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

// BookingConfirmedEvent is published once per booking when a checkout
// commits.  It contains enough information for downstream consumers to
// render the invoice and send the confirmation email without querying
// the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64       `json:"booking_id"`
	UserID           uint64       `json:"user_id"`
	UserEmail        string       `json:"user_email"`
	HotelID          uint64       `json:"hotel_id"`
	HotelName        string       `json:"hotel_name"`
	City             string       `json:"city"`
	CheckIn          string       `json:"check_in"`
	CheckOut         string       `json:"check_out"`
	Rooms            []BookedRoom `json:"rooms"`
	TotalAmountCents uint32       `json:"total_amount_cents"`
	PaymentMethod    string       `json:"payment_method"`
	PaymentRef       string       `json:"payment_ref"`
	ConfirmedAt      string       `json:"confirmed_at"`
}
